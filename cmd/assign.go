package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/fleetboard/core/model"
)

var assignOpts struct {
	staff string
	asset string
	role  string
	yes   bool
}

var assignCmd = &cobra.Command{
	Use:   "assign <route|trip> <id>",
	Short: "Bind a staff member or asset to a route or field trip",
	Example: `  fleetboard assign route R1 --staff S1
  fleetboard assign trip FT1 --staff S2 --role escort
  fleetboard assign route R2 --asset A2 --yes`,
	Args: cobra.ExactArgs(2),
	RunE: runAssign,
}

var clearOpts struct {
	role     string
	resource string
}

var clearCmd = &cobra.Command{
	Use:   "clear <route|trip> <id>",
	Short: "Release resources from a route or field trip",
	Args:  cobra.ExactArgs(2),
	RunE:  runClear,
}

var releaseCmd = &cobra.Command{
	Use:   "release <staff|asset> <id>",
	Short: "Release a resource from wherever it is bound",
	Args:  cobra.ExactArgs(2),
	RunE:  runRelease,
}

func init() {
	f := assignCmd.Flags()
	f.StringVar(&assignOpts.staff, "staff", "", "staff id to assign")
	f.StringVar(&assignOpts.asset, "asset", "", "asset id to assign")
	f.StringVar(&assignOpts.role, "role", "", "slot to fill (driver, escort, asset, trailer)")
	f.BoolVarP(&assignOpts.yes, "yes", "y", false, "move the resource without asking when it is bound elsewhere")
	assignCmd.MarkFlagsMutuallyExclusive("staff", "asset")
	assignCmd.MarkFlagsOneRequired("staff", "asset")

	clearCmd.Flags().StringVar(&clearOpts.role, "role", "", "only clear this slot")
	clearCmd.Flags().StringVar(&clearOpts.resource, "resource", "", "only clear this resource id")

	rootCmd.AddCommand(assignCmd, clearCmd, releaseCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	owner, err := parseOwner(args[0], args[1])
	if err != nil {
		return err
	}
	res := model.Staff(assignOpts.staff)
	role := model.Role(assignOpts.role)
	if assignOpts.asset != "" {
		res = model.Asset(assignOpts.asset)
	}
	if role == "" {
		role = model.DefaultRole(res.Type)
	}

	svc, done, err := openBoard(cmd, assignOpts.yes)
	if err != nil {
		return err
	}
	defer done()
	ctx := contextOf(cmd)
	switch {
	case owner.Kind == model.OwnerFieldTrip:
		return report(cmd, svc.Engine.AssignToFieldTrip(ctx, owner.ID, res, role))
	case res.Type == model.ResourceStaff:
		return report(cmd, svc.Engine.AssignStaffToRoute(ctx, owner.ID, res.ID, role))
	default:
		return report(cmd, svc.Engine.AssignAssetToRoute(ctx, owner.ID, res.ID, role))
	}
}

func runClear(cmd *cobra.Command, args []string) error {
	owner, err := parseOwner(args[0], args[1])
	if err != nil {
		return err
	}
	svc, done, err := openBoard(cmd, false)
	if err != nil {
		return err
	}
	defer done()
	role := model.Role(clearOpts.role)
	if owner.Kind == model.OwnerFieldTrip {
		return report(cmd, svc.Engine.ClearFieldTripAssignment(contextOf(cmd), owner.ID, role, clearOpts.resource))
	}
	return report(cmd, svc.Engine.ClearRouteAssignment(contextOf(cmd), owner.ID, role, clearOpts.resource))
}

func runRelease(cmd *cobra.Command, args []string) error {
	res, err := parseResource(args[0], args[1])
	if err != nil {
		return err
	}
	svc, done, err := openBoard(cmd, false)
	if err != nil {
		return err
	}
	defer done()
	return report(cmd, svc.Engine.ReleaseResource(contextOf(cmd), res))
}
