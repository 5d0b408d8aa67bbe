// Package controller holds the signed-in session: which user is active,
// their car and service history, the current view and any open modal.
// Every logbook change goes through it so that the in-memory state and the
// stores stay in step.
package controller

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/ukydev/car-logbook/internal/advisor"
	"github.com/ukydev/car-logbook/internal/apperror"
	"github.com/ukydev/car-logbook/internal/auth"
	"github.com/ukydev/car-logbook/internal/db"
	"github.com/ukydev/car-logbook/internal/events"
	"github.com/ukydev/car-logbook/internal/garage"
	"github.com/ukydev/car-logbook/internal/metrics"
	"github.com/ukydev/car-logbook/internal/models"
	"github.com/ukydev/car-logbook/internal/subscription"
)

type State string

const (
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateReady           State = "ready"
)

type View string

const (
	ViewDashboard   View = "dashboard"
	ViewCarProfile  View = "car_profile"
	ViewDiagnostics View = "diagnostics"
)

func IsValidView(v View) bool {
	switch v {
	case ViewDashboard, ViewCarProfile, ViewDiagnostics:
		return true
	default:
		return false
	}
}

type Modal string

const (
	ModalNone            Modal = ""
	ModalAddService      Modal = "add_service"
	ModalEditService     Modal = "edit_service"
	ModalProfileSettings Modal = "profile_settings"
	ModalSubscription    Modal = "subscription"
)

func IsValidModal(m Modal) bool {
	switch m {
	case ModalAddService, ModalEditService, ModalProfileSettings, ModalSubscription:
		return true
	default:
		return false
	}
}

var (
	ErrNotSignedIn         = &apperror.AppError{Err: apperror.ErrUnauthenticated, Message: "not signed in"}
	ErrInvalidCredentials  = &apperror.AppError{Err: apperror.ErrUnauthenticated, Message: "invalid username or password"}
	ErrServiceLimitReached = apperror.Forbidden("service limit reached for your plan, upgrade to add more")
)

// Snapshot is the externally visible session state.
type Snapshot struct {
	State     State        `json:"state"`
	View      View         `json:"view"`
	Modal     Modal        `json:"modal,omitempty"`
	ServiceID string       `json:"serviceId,omitempty"`
	User      *models.User `json:"user,omitempty"`
}

// Deps are the collaborators of a Controller. Events, Metrics and Advisor
// may be left nil.
type Deps struct {
	Auth          *auth.Service
	Garage        *garage.Store
	Subscriptions *subscription.Service
	Preferences   db.PreferenceCollection
	Advisor       advisor.Advisor
	Events        events.Publisher
	Metrics       *metrics.Metrics
	Logger        *log.Logger
}

type Controller struct {
	auth    *auth.Service
	garage  *garage.Store
	subs    *subscription.Service
	prefs   db.PreferenceCollection
	advisor advisor.Advisor
	events  events.Publisher
	metrics *metrics.Metrics
	logger  *log.Logger
	now     func() time.Time
	newID   func() string

	mu        sync.Mutex
	state     State
	view      View
	modal     Modal
	serviceID string
	user      *models.User
	car       models.Car
	services  []models.ServiceRecord
	outbox    []events.Event
}

func New(deps Deps) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = log.StandardLogger()
	}
	publisher := deps.Events
	if publisher == nil {
		publisher = events.Noop{}
	}
	ai := deps.Advisor
	if ai == nil {
		ai = advisor.Unavailable{}
	}
	if _, ok := ai.(*advisor.Guarded); !ok {
		ai = advisor.NewGuarded(ai)
	}

	return &Controller{
		auth:    deps.Auth,
		garage:  deps.Garage,
		subs:    deps.Subscriptions,
		prefs:   deps.Preferences,
		advisor: ai,
		events:  publisher,
		metrics: deps.Metrics,
		logger:  logger,
		now:     time.Now,
		newID:   newServiceID,
		state:   StateUnauthenticated,
		view:    ViewDashboard,
	}
}

// WithClock replaces the clock used for default service dates and event
// timestamps.
func (c *Controller) WithClock(now func() time.Time) *Controller {
	c.now = now
	return c
}

// AIAvailable reports whether AI requests are backed by a model.
func (c *Controller) AIAvailable() bool {
	return advisor.Available(c.advisor)
}

// Snapshot returns the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshot()
}

func (c *Controller) snapshot() Snapshot {
	s := Snapshot{
		State:     c.state,
		View:      c.view,
		Modal:     c.modal,
		ServiceID: c.serviceID,
	}
	if c.user != nil {
		u := *c.user
		s.User = &u
	}
	return s
}

// CurrentUser returns the signed-in user, or ErrNotSignedIn.
func (c *Controller) CurrentUser() (models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.user == nil || c.state != StateReady {
		return models.User{}, ErrNotSignedIn
	}
	return *c.user, nil
}

// Restore resumes a session left in session storage by a previous run.
func (c *Controller) Restore(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	return c.enter(ctx, *user)
}

// enter moves from unauthenticated through loading to ready.
// Navigation state of a previous session does not carry over.
func (c *Controller) enter(ctx context.Context, user models.User) error {
	c.closeModal()
	c.view = ViewDashboard
	c.car = models.Car{}
	c.services = nil
	c.state = StateLoading
	c.user = &user

	car, err := c.garage.Car(ctx, user.Username)
	if err != nil {
		c.reset()
		return err
	}
	services, err := c.garage.Services(ctx, user.Username)
	if err != nil {
		c.reset()
		return err
	}

	c.car = car
	c.services = services
	c.state = StateReady
	c.logger.WithFields(log.Fields{
		"username": user.Username,
		"services": len(services),
	}).Debug("Session ready")
	return nil
}

func (c *Controller) reset() {
	c.state = StateUnauthenticated
	c.view = ViewDashboard
	c.modal = ModalNone
	c.serviceID = ""
	c.user = nil
	c.car = models.Car{}
	c.services = nil
}

// ready returns the session user or ErrNotSignedIn. c.mu must be held.
func (c *Controller) ready() (models.User, error) {
	if c.state != StateReady || c.user == nil {
		return models.User{}, ErrNotSignedIn
	}
	return *c.user, nil
}

// Register creates an unconfirmed account. The session is unchanged.
func (c *Controller) Register(ctx context.Context, input models.RegisterInput) (*models.User, error) {
	user, err := c.auth.Register(ctx, input)
	if err != nil {
		return nil, err
	}
	c.metrics.AccountEvent("registered")
	return user, nil
}

// Confirm marks an account as confirmed so it can sign in.
func (c *Controller) Confirm(ctx context.Context, username string) error {
	ok, err := c.auth.ConfirmUser(ctx, username)
	if err != nil {
		return err
	}
	if !ok {
		return auth.ErrUserNotFound
	}
	c.metrics.AccountEvent("confirmed")
	return nil
}

// Login signs in with a username or email and loads the user's logbook.
func (c *Controller) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.auth.Login(ctx, identifier, password)
	if err != nil {
		c.metrics.AccountEvent("login_rejected")
		return nil, err
	}
	if user == nil {
		c.metrics.AccountEvent("login_failed")
		return nil, ErrInvalidCredentials
	}
	if err := c.enter(ctx, *user); err != nil {
		return nil, err
	}
	c.metrics.AccountEvent("login")
	return user, nil
}

// LoginExternal signs in with an identity token from an external provider.
func (c *Controller) LoginExternal(ctx context.Context, credential string) (*models.User, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	user, err := c.auth.LoginWithExternal(ctx, credential)
	if err != nil {
		return nil, err
	}
	if err := c.enter(ctx, *user); err != nil {
		return nil, err
	}
	c.metrics.AccountEvent("login_external")
	return user, nil
}

// Logout clears the session and closes any open modal.
func (c *Controller) Logout(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.auth.Logout(ctx); err != nil {
		return err
	}
	if c.user != nil {
		c.logger.WithField("username", c.user.Username).Info("User logged out")
	}
	c.reset()
	c.metrics.AccountEvent("logout")
	return nil
}

// SetView switches the main view. Open modals stay open.
func (c *Controller) SetView(view View) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.ready(); err != nil {
		return Snapshot{}, err
	}
	if !IsValidView(view) {
		return Snapshot{}, apperror.ValidationFailed("view", fmt.Sprintf("unknown view %q", view))
	}
	c.view = view
	return c.snapshot(), nil
}

// OpenModal opens modal on top of the current view. The edit_service modal
// needs the id of an existing service.
func (c *Controller) OpenModal(modal Modal, serviceID string) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := c.ready(); err != nil {
		return Snapshot{}, err
	}
	if !IsValidModal(modal) {
		return Snapshot{}, apperror.ValidationFailed("modal", fmt.Sprintf("unknown modal %q", modal))
	}
	if modal == ModalEditService {
		if c.indexOf(serviceID) < 0 {
			return Snapshot{}, apperror.NotFound("service", serviceID)
		}
	} else {
		serviceID = ""
	}
	c.modal = modal
	c.serviceID = serviceID
	return c.snapshot(), nil
}

func (c *Controller) CloseModal() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeModal()
	return c.snapshot()
}

func (c *Controller) closeModal() {
	c.modal = ModalNone
	c.serviceID = ""
}

// publish queues an event for unlock to send. c.mu must be held.
func (c *Controller) publish(typ events.Type, username string, data any) {
	c.outbox = append(c.outbox, events.Event{
		Type:      typ,
		Username:  username,
		Timestamp: c.now().UTC(),
		Data:      data,
	})
}

// unlock releases c.mu, then sends the events queued while it was held.
func (c *Controller) unlock(ctx context.Context) {
	pending := c.outbox
	c.outbox = nil
	c.mu.Unlock()

	for _, e := range pending {
		if err := c.events.Publish(ctx, e); err != nil {
			c.logger.WithError(err).WithField("event", e.Type).Warn("Failed to publish event")
		}
	}
}
