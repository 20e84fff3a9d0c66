package cmd

import (
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"pet-care-portal/internal/domain/appointments"
	"pet-care-portal/internal/domain/validation"

	"github.com/spf13/cobra"
)

var bookVet int64

// bookFlag liga un flag de 'book' con un campo del formulario.
type bookFlag struct {
	field validation.Field
	name  string
	usage string
	value string
}

var bookFlags = []*bookFlag{
	{field: validation.FieldAppointmentDate, name: "date", usage: "date, YYYY-MM-DD"},
	{field: validation.FieldAppointmentTime, name: "time", usage: "time, HH:MM"},
	{field: validation.FieldPetName, name: "pet-name", usage: "pet name"},
	{field: validation.FieldPetType, name: "pet-type", usage: "Dog, Cat, Bird, Rabbit, Hamster, Fish, Reptile or Other"},
	{field: validation.FieldPetAge, name: "pet-age", usage: "pet age"},
	{field: validation.FieldReasonForVisit, name: "reason", usage: "reason for the visit"},
	{field: validation.FieldClientName, name: "name", usage: "client name (default: session user)"},
	{field: validation.FieldClientEmail, name: "email", usage: "client email (default: session user)"},
	{field: validation.FieldClientPhone, name: "phone", usage: "client phone"},
	{field: validation.FieldAdditionalNotes, name: "notes", usage: "additional notes"},
}

var bookCmd = &cobra.Command{
	Use:   "book",
	Short: "Book an appointment with a veterinarian",
	Long: `Book an appointment. When logged in, name and email default to the
session user and the appointment is linked to the account.

The slot must be one of the veterinarian's working hours (see 'petcare slots
--vet ID'); it is checked for availability right before booking.`,
	RunE: withApp(runBook),
}

var appointmentsCmd = &cobra.Command{
	Use:     "appointments",
	Aliases: []string{"appts"},
	Short:   "List appointments",
}

var appointmentsMineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Appointments of the logged in user",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		u, err := a.currentUser()
		if err != nil {
			return err
		}
		list, err := a.api.Appointments.GetByUser(cmd.Context(), u.ID)
		if err != nil {
			return err
		}
		return printAppointments(cmd.OutOrStdout(), list)
	}),
}

var appointmentsTodayCmd = &cobra.Command{
	Use:   "today",
	Short: "Appointments scheduled for today",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		list, err := a.api.Appointments.GetToday(cmd.Context())
		if err != nil {
			return err
		}
		return printAppointments(cmd.OutOrStdout(), list)
	}),
}

func init() {
	rootCmd.AddCommand(bookCmd, appointmentsCmd)
	appointmentsCmd.AddCommand(appointmentsMineCmd, appointmentsTodayCmd)

	f := bookCmd.Flags()
	f.Int64Var(&bookVet, "vet", 0, "veterinarian id")
	for _, bf := range bookFlags {
		f.StringVar(&bf.value, bf.name, "", bf.usage)
	}

	_ = bookCmd.MarkFlagRequired("vet")
}

// notifier escribe los avisos del flujo de reserva (los toasts de la web).
type notifier struct {
	w io.Writer
}

func (n notifier) Success(msg string) { printf(n.w, "%s\n", msg) }
func (n notifier) Error(msg string)   { printf(n.w, "%s\n", msg) }

// confirmationDelay: en la config 0 significa sin pausa.
func (a *app) confirmationDelay() time.Duration {
	if d := a.cfg.Booking.ConfirmationDelay; d > 0 {
		return d
	}
	return appointments.NoConfirmationDelay
}

func runBook(cmd *cobra.Command, _ []string, a *app) error {
	vet, err := a.api.Veterinarians.GetByID(cmd.Context(), bookVet)
	if err != nil {
		return fmt.Errorf("veterinarian %d: %w", bookVet, err)
	}

	b, err := appointments.NewBooking(appointments.Options{
		API:               a.api.Appointments,
		Veterinarian:      vet,
		Notifier:          notifier{w: cmd.ErrOrStderr()},
		Identity:          a.session,
		Logger:            a.log,
		ConfirmationDelay: a.confirmationDelay(),
	})
	if err != nil {
		return err
	}
	defer b.Close()

	// solo los flags que vinieron; el resto conserva el valor por defecto del formulario
	for _, bf := range bookFlags {
		if !cmd.Flags().Changed(bf.name) {
			continue
		}
		if err := b.Set(bf.field, bf.value); err != nil {
			return err
		}
	}

	out, err := b.Submit(cmd.Context())
	if errors.Is(err, appointments.ErrValidation) {
		w := cmd.ErrOrStderr()
		for _, f := range out.Errors.Fields() {
			printf(w, "  %s: %s\n", f, out.Errors[f])
		}
		return err
	}
	if err != nil {
		return err
	}

	ap := out.Appointment
	printf(cmd.OutOrStdout(), "Appointment #%d with %s on %s at %s for %s (%s)\n",
		ap.ID, vet.FullName, ap.AppointmentDate, ap.AppointmentTime, ap.PetName, ap.Status)
	return nil
}

func printAppointments(w io.Writer, list []appointments.Appointment) error {
	if len(list) == 0 {
		printf(w, "No appointments\n")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tTIME\tVET\tPET\tREASON\tSTATUS")
	for _, ap := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%s (%s)\t%s\t%s\n",
			ap.ID, ap.AppointmentDate, ap.AppointmentTime, ap.VeterinarianID,
			ap.PetName, ap.PetType, ap.ReasonForVisit, ap.Status)
	}
	return tw.Flush()
}
