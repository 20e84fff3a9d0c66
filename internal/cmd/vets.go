package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"pet-care-portal/internal/domain/slots"
	"pet-care-portal/internal/domain/veterinarians"

	"github.com/spf13/cobra"
)

var (
	slotsFrom string
	slotsTo   string
	slotsVet  int64
)

var slotsCmd = &cobra.Command{
	Use:   "slots",
	Short: "Print the 30-minute appointment slots of a range or a veterinarian",
	Long: `Print the appointment slots between --from and --to (HH:MM, end exclusive).

With --vet the range comes from the veterinarian's working hours. Without any
bound the default clinic slots are printed.`,
	RunE: runSlots,
}

var vetsCmd = &cobra.Command{
	Use:   "vets",
	Short: "Browse veterinarians",
}

var vetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all veterinarians",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		list, err := a.api.Veterinarians.GetAll(cmd.Context())
		if err != nil {
			return err
		}
		return printVets(cmd.OutOrStdout(), list)
	}),
}

var vetsAvailableCmd = &cobra.Command{
	Use:   "available",
	Short: "List veterinarians taking appointments",
	RunE: withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		list, err := a.api.Veterinarians.GetAvailable(cmd.Context())
		if err != nil {
			return err
		}
		return printVets(cmd.OutOrStdout(), list)
	}),
}

var vetsSearchCmd = &cobra.Command{
	Use:   "search QUERY",
	Short: "Search veterinarians by name or specialization",
	Args:  cobra.MinimumNArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		list, err := a.api.Veterinarians.Search(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		return printVets(cmd.OutOrStdout(), list)
	}),
}

var vetsShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show a veterinarian and the slots they offer",
	Args:  cobra.ExactArgs(1),
	RunE: withApp(func(cmd *cobra.Command, args []string, a *app) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		v, err := a.api.Veterinarians.GetByID(cmd.Context(), id)
		if err != nil {
			return err
		}
		return printVet(cmd.OutOrStdout(), v)
	}),
}

func init() {
	rootCmd.AddCommand(slotsCmd, vetsCmd)
	vetsCmd.AddCommand(vetsListCmd, vetsAvailableCmd, vetsSearchCmd, vetsShowCmd)

	slotsCmd.Flags().StringVar(&slotsFrom, "from", "", "first slot, HH:MM")
	slotsCmd.Flags().StringVar(&slotsTo, "to", "", "end of the range (exclusive), HH:MM")
	slotsCmd.Flags().Int64Var(&slotsVet, "vet", 0, "use the working hours of this veterinarian")
}

func runSlots(cmd *cobra.Command, args []string) error {
	if slotsVet <= 0 {
		list, err := slots.Generate(slotsFrom, slotsTo)
		if err != nil {
			return err
		}
		printSlots(cmd.OutOrStdout(), list)
		return nil
	}

	return withApp(func(cmd *cobra.Command, _ []string, a *app) error {
		v, err := a.api.Veterinarians.GetByID(cmd.Context(), slotsVet)
		if err != nil {
			return err
		}
		list, err := v.Slots()
		if err != nil {
			return err
		}
		printSlots(cmd.OutOrStdout(), list)
		return nil
	})(cmd, args)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func printSlots(w io.Writer, list []string) {
	if len(list) == 0 {
		printf(w, "No slots in range\n")
		return
	}
	printf(w, "%s\n", strings.Join(list, " "))
}

func printVets(w io.Writer, list []veterinarians.Veterinarian) error {
	if len(list) == 0 {
		printf(w, "No veterinarians found\n")
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tSPECIALIZATION\tHOURS\tFEE\tAVAILABLE")
	for _, v := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%t\n",
			v.ID, v.FullName, orDash(v.Specialization), hours(v), v.ConsultationFee.StringFixed(2), v.IsAvailable)
	}
	return tw.Flush()
}

func printVet(w io.Writer, v veterinarians.Veterinarian) error {
	printf(w, "%s (#%d)\n", v.FullName, v.ID)
	printf(w, "  specialization: %s\n", orDash(v.Specialization))
	printf(w, "  email:          %s\n", orDash(v.Email))
	printf(w, "  experience:     %d years\n", v.YearsOfExperience)
	printf(w, "  fee:            %s\n", v.ConsultationFee.StringFixed(2))
	printf(w, "  hours:          %s (%s)\n", hours(v), orDash(v.WorkingDays))
	printf(w, "  available:      %t\n", v.IsAvailable)

	list, err := v.Slots()
	if err != nil {
		return err
	}
	printf(w, "  slots:          %s\n", strings.Join(list, " "))
	return nil
}

func hours(v veterinarians.Veterinarian) string {
	if v.AvailableFrom == "" && v.AvailableTo == "" {
		return "default"
	}
	return orDash(string(v.AvailableFrom)) + "-" + orDash(string(v.AvailableTo))
}
