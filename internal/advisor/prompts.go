package advisor

import (
	"fmt"

	"github.com/ukydev/car-logbook/internal/models"
)

type promptSet struct {
	adviceFormat    string // make, model, year, mileage, service type
	diagnosisFormat string // make, model, year, problem
}

func (p promptSet) advice(car models.Car, serviceType string) string {
	return fmt.Sprintf(p.adviceFormat, car.Make, car.Model, car.Year, car.Mileage, serviceType)
}

func (p promptSet) diagnosis(car models.Car, problem string) string {
	return fmt.Sprintf(p.diagnosisFormat, car.Make, car.Model, car.Year, problem)
}

var prompts = map[models.Language]promptSet{
	models.LanguageEN: {
		adviceFormat:    "You are an experienced car mechanic. The owner drives a %s %s from %d with %d km on the clock and is logging this service: %q. Reply in English with the estimated cost in EUR, when the next service is due, and a few practical tips.",
		diagnosisFormat: "You are an experienced automotive diagnostician. The owner of a %s %s from %d reports: %q. Reply in English with two or three likely causes, each with a repair cost range in EUR and a complexity of Low, Medium or High, followed by one recommendation.",
	},
	models.LanguageBG: {
		adviceFormat:    "Ти си опитен автомонтьор. Собственикът кара %s %s от %d г. с пробег %d км и записва това обслужване: %q. Отговори на български с очаквана цена в EUR, кога е следващото обслужване и няколко практични съвета.",
		diagnosisFormat: "Ти си опитен автодиагностик. Собственикът на %s %s от %d г. съобщава: %q. Отговори на български с две или три вероятни причини, всяка с ценови диапазон в EUR и сложност Ниска, Средна или Висока, и една препоръка.",
	},
	models.LanguageES: {
		adviceFormat:    "Eres un mecánico con experiencia. El propietario conduce un %s %s de %d con %d km y registra este servicio: %q. Responde en español con el coste estimado en EUR, cuándo toca el próximo servicio y algunos consejos prácticos.",
		diagnosisFormat: "Eres un técnico de diagnóstico con experiencia. El propietario de un %s %s de %d informa: %q. Responde en español con dos o tres causas probables, cada una con un rango de coste en EUR y una complejidad Baja, Media o Alta, y una recomendación.",
	},
	models.LanguageDE: {
		adviceFormat:    "Sie sind ein erfahrener Kfz-Mechaniker. Der Halter fährt einen %s %s von %d mit %d km und erfasst diesen Service: %q. Antworten Sie auf Deutsch mit den geschätzten Kosten in EUR, dem nächsten fälligen Service und einigen praktischen Tipps.",
		diagnosisFormat: "Sie sind ein erfahrener Kfz-Diagnostiker. Der Halter eines %s %s von %d meldet: %q. Antworten Sie auf Deutsch mit zwei oder drei wahrscheinlichen Ursachen, jeweils mit Kostenrahmen in EUR und Komplexität Niedrig, Mittel oder Hoch, sowie einer Empfehlung.",
	},
	models.LanguageFR: {
		adviceFormat:    "Vous êtes un mécanicien expérimenté. Le propriétaire conduit une %s %s de %d avec %d km et enregistre cet entretien : %q. Répondez en français avec le coût estimé en EUR, l'échéance du prochain entretien et quelques conseils pratiques.",
		diagnosisFormat: "Vous êtes un diagnostiqueur automobile expérimenté. Le propriétaire d'une %s %s de %d signale : %q. Répondez en français avec deux ou trois causes probables, chacune avec une fourchette de coût en EUR et une complexité Faible, Moyenne ou Élevée, puis une recommandation.",
	},
}

// promptsFor falls back to English for languages without prompts.
func promptsFor(lang models.Language) promptSet {
	if p, ok := prompts[lang]; ok {
		return p
	}
	return prompts[models.LanguageEN]
}
