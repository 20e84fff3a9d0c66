package appointments

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"pet-care-portal/internal/domain/session"
	"pet-care-portal/internal/domain/validation"
	"pet-care-portal/internal/domain/veterinarians"
	"pet-care-portal/internal/platform/httpclient"
	"pet-care-portal/internal/platform/jsontime"
	"pet-care-portal/internal/platform/logger"
)

var (
	ErrValidation      = errors.New("appointment: validation failed")
	ErrSlotUnavailable = errors.New("appointment: slot no longer available")
	ErrSubmitFailed    = errors.New("appointment: submit failed")
	ErrBusy            = errors.New("appointment: submit already in progress")
	ErrClosed          = errors.New("appointment: booking closed")
	ErrUnknownField    = errors.New("appointment: unknown field")
)

const (
	MsgFixErrors   = "Please fix the validation errors"
	MsgUnavailable = "This time slot is no longer available. Please choose another time."
	MsgFailed      = "Failed to book appointment. Please try again."
	MsgBooked      = "Appointment booked successfully!"

	DefaultConfirmationDelay = 2 * time.Second
	// NoConfirmationDelay cierra el flujo apenas se crea la cita.
	NoConfirmationDelay time.Duration = -1
)

// Valores iniciales del formulario.
const (
	defaultPetType = string(PetRabbit)
	defaultTime    = "08:00"
	defaultReason  = string(ReasonCheckup)
)

// State del flujo de reserva.
type State int

const (
	Editing State = iota
	Validating
	CheckingAvailability
	Submitting
	Success
	Closed
)

func (s State) String() string {
	switch s {
	case Editing:
		return "editing"
	case Validating:
		return "validating"
	case CheckingAvailability:
		return "checking_availability"
	case Submitting:
		return "submitting"
	case Success:
		return "success"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Outcome resume un Submit.
type Outcome struct {
	State       State
	Appointment *Appointment
	Errors      validation.Errors
}

type Options struct {
	API          API
	Veterinarian veterinarians.Veterinarian

	Notifier Notifier
	Identity Identity
	Logger   logger.Logger

	// 0 = DefaultConfirmationDelay; negativo = sin pausa.
	ConfirmationDelay time.Duration
	// OnClose se llama una vez cuando el flujo termina (éxito o Close). No se
	// llama si ctx se cancela durante la pausa de confirmación.
	OnClose func()
}

// Booking es el formulario de reserva de una cita con un veterinario.
// Admite un solo Submit en vuelo; los demás reciben ErrBusy.
type Booking struct {
	api      API
	vet      veterinarians.Veterinarian
	slots    []string
	notify   Notifier
	identity Identity
	log      logger.Logger
	delay    time.Duration
	onClose  func()

	now  func() time.Time
	wait func(ctx context.Context, d time.Duration) error

	mu       sync.Mutex
	draft    validation.AppointmentDraft
	errs     validation.Errors
	state    State
	inFlight bool
	closed   bool
}

func NewBooking(opts Options) (*Booking, error) {
	if opts.API == nil {
		return nil, errors.New("appointment: api required")
	}
	if opts.Veterinarian.ID <= 0 {
		return nil, errors.New("appointment: veterinarian required")
	}
	slotList, err := opts.Veterinarian.Slots()
	if err != nil {
		return nil, fmt.Errorf("appointment: veterinarian hours: %w", err)
	}

	b := &Booking{
		api:      opts.API,
		vet:      opts.Veterinarian,
		slots:    slotList,
		notify:   opts.Notifier,
		identity: opts.Identity,
		log:      opts.Logger,
		delay:    opts.ConfirmationDelay,
		onClose:  opts.OnClose,
		now:      time.Now,
		wait:     sleepCtx,
		errs:     validation.Errors{},
		state:    Editing,
	}
	if b.notify == nil {
		b.notify = nopNotifier{}
	}
	if b.identity == nil {
		b.identity = anonymous{}
	}
	if b.log == nil {
		b.log = logger.Nop()
	}
	b.log = b.log.With(map[string]any{"component": "booking", "veterinarian_id": b.vet.ID})
	if b.delay == 0 {
		b.delay = DefaultConfirmationDelay
	}

	b.draft = b.seed(validation.AppointmentDraft{
		PetType:         defaultPetType,
		AppointmentTime: defaultTime,
		ReasonForVisit:  defaultReason,
	})
	return b, nil
}

// seed completa nombre y email desde la sesión, si hay usuario.
func (b *Booking) seed(d validation.AppointmentDraft) validation.AppointmentDraft {
	d.VeterinarianID = b.vet.ID
	if u, ok := b.identity.CurrentUser(); ok {
		d.ClientName = u.FirstName + " " + u.LastName
		d.ClientEmail = u.Email
	}
	return d
}

func (b *Booking) Slots() []string {
	out := make([]string, len(b.slots))
	copy(out, b.slots)
	return out
}

func (b *Booking) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Booking) Draft() validation.AppointmentDraft {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.draft
}

func (b *Booking) Errors() validation.Errors {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(validation.Errors, len(b.errs))
	for k, v := range b.errs {
		out[k] = v
	}
	return out
}

// Set edita un campo y borra su error. Solo en Editing.
func (b *Booking) Set(f validation.Field, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.inFlight {
		return ErrBusy
	}

	d := &b.draft
	switch f {
	case validation.FieldClientName:
		d.ClientName = value
	case validation.FieldClientEmail:
		d.ClientEmail = value
	case validation.FieldClientPhone:
		d.ClientPhone = value
	case validation.FieldPetName:
		d.PetName = value
	case validation.FieldPetType:
		d.PetType = value
	case validation.FieldPetAge:
		d.PetAge = value
	case validation.FieldAppointmentDate:
		d.AppointmentDate = value
	case validation.FieldAppointmentTime:
		d.AppointmentTime = value
	case validation.FieldReasonForVisit:
		d.ReasonForVisit = value
	case validation.FieldAdditionalNotes:
		d.AdditionalNotes = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, f)
	}
	b.errs.Clear(f)
	b.state = Editing
	return nil
}

// resetLocked deja el formulario en blanco, con la identidad re-sembrada.
func (b *Booking) resetLocked() {
	b.draft = b.seed(validation.AppointmentDraft{})
	b.errs = validation.Errors{}
}

// Close abandona el flujo. Un Submit en vuelo no se cancela, pero sus
// efectos (mensajes, reset, OnClose) se descartan.
func (b *Booking) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	b.state = Closed
	b.resetLocked()
	onClose := b.onClose
	b.mu.Unlock()

	if onClose != nil {
		onClose()
	}
}

// Submit corre validación -> disponibilidad -> alta. La verificación y el alta
// son dos requests: un 409 en el alta se trata igual que un slot ocupado.
func (b *Booking) Submit(ctx context.Context) (Outcome, error) {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return Outcome{State: Closed}, ErrClosed
	}
	if b.inFlight {
		b.mu.Unlock()
		return Outcome{State: b.state}, ErrBusy
	}
	b.inFlight = true
	b.state = Validating
	draft := b.draft
	b.mu.Unlock()

	draft.AppointmentDate = strings.TrimSpace(draft.AppointmentDate)
	draft.AppointmentTime = strings.TrimSpace(draft.AppointmentTime)

	errs := validation.ValidateAppointment(draft, b.now(), b.slots)
	if !errs.Empty() {
		b.finish(func() {
			b.errs = errs
			b.notify.Error(MsgFixErrors)
		})
		return Outcome{State: Editing, Errors: errs}, ErrValidation
	}

	b.setState(CheckingAvailability)
	available, err := b.api.CheckAvailability(ctx, b.vet.ID, draft.AppointmentDate, draft.AppointmentTime)
	if err != nil {
		return b.fail(err)
	}
	if !available {
		b.log.Info("slot taken", map[string]any{"date": draft.AppointmentDate, "time": draft.AppointmentTime})
		b.finish(func() { b.notify.Error(MsgUnavailable) })
		return Outcome{State: Editing}, ErrSlotUnavailable
	}

	b.setState(Submitting)
	created, err := b.api.Create(ctx, b.payload(draft))
	if err != nil {
		return b.fail(err)
	}
	b.log.Info("appointment booked", map[string]any{"appointment_id": created.ID})

	if !b.enter(Success) {
		b.release()
		return Outcome{State: Success, Appointment: &created}, nil
	}
	b.notify.Success(MsgBooked)

	var waitErr error
	if b.delay > 0 {
		waitErr = b.wait(ctx, b.delay)
	}

	b.mu.Lock()
	b.inFlight = false
	if b.closed {
		b.mu.Unlock()
		return Outcome{State: Success, Appointment: &created}, nil
	}
	b.resetLocked()
	b.closed = true
	b.state = Closed
	onClose := b.onClose
	b.mu.Unlock()

	if waitErr != nil {
		// la cita ya existe; quien llamó se fue antes de la confirmación
		b.log.Warn("confirmation interrupted", map[string]any{"appointment_id": created.ID, "error": waitErr})
		return Outcome{State: Success, Appointment: &created}, nil
	}

	if onClose != nil {
		onClose()
	}
	return Outcome{State: Success, Appointment: &created}, nil
}

func (b *Booking) fail(err error) (Outcome, error) {
	if status, ok := httpclient.StatusCode(err); ok && status == http.StatusConflict {
		b.finish(func() { b.notify.Error(MsgUnavailable) })
		return Outcome{State: Editing}, fmt.Errorf("%w: %w", ErrSlotUnavailable, err)
	}
	b.log.Warn("booking failed", map[string]any{"error": err})
	b.finish(func() { b.notify.Error(MsgFailed) })
	return Outcome{State: Editing}, fmt.Errorf("%w: %w", ErrSubmitFailed, err)
}

// finish vuelve a Editing y aplica effect, salvo que el flujo se haya cerrado.
func (b *Booking) finish(effect func()) {
	b.mu.Lock()
	b.inFlight = false
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.state = Editing
	b.mu.Unlock()
	effect()
}

func (b *Booking) setState(s State) { b.enter(s) }

// enter cambia de estado si el flujo sigue abierto.
func (b *Booking) enter(s State) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.state = s
	return true
}

func (b *Booking) release() {
	b.mu.Lock()
	b.inFlight = false
	b.mu.Unlock()
}

func (b *Booking) payload(d validation.AppointmentDraft) Appointment {
	a := Appointment{
		VeterinarianID:  b.vet.ID,
		ClientName:      strings.TrimSpace(d.ClientName),
		ClientEmail:     strings.TrimSpace(d.ClientEmail),
		ClientPhone:     optional(d.ClientPhone),
		PetName:         strings.TrimSpace(d.PetName),
		PetType:         PetType(d.PetType),
		PetAge:          optional(d.PetAge),
		AppointmentDate: d.AppointmentDate,
		AppointmentTime: jsontime.Clock(d.AppointmentTime),
		ReasonForVisit:  Reason(d.ReasonForVisit),
		AdditionalNotes: optional(d.AdditionalNotes),
		Status:          StatusScheduled,
	}
	if u, ok := b.identity.CurrentUser(); ok {
		id := u.ID
		a.UserID = &id
	}
	return a
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ Identity = (*session.Holder)(nil)
