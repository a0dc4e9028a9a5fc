package cli

import (
	"github.com/spf13/cobra"

	"github.com/teuprojeto/flowrev/internal/domain"
	"github.com/teuprojeto/flowrev/internal/policy"
	"github.com/teuprojeto/flowrev/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Products  service.ProductService
	Types     service.InsumoTypeService
	Editions  service.EditionService
	Insumos   service.InsumoService
	Users     service.UserService
	Dashboard service.DashboardService
	Import    service.ImportService

	// Actor is the signed-in user; nil means anonymous (role gate skipped).
	Actor *domain.User
	// Policy gates board moves before they reach the reconciler.
	Policy policy.Config

	// IsInteractive reports whether stdin is a terminal; the board and
	// calendar views refuse to start without one.
	IsInteractive func() bool

	// PhaseCalendar drives the calendar view's phase banding.
	PhaseCalendar domain.PhaseCalendar
}

// NewRootCmd creates the top-level "flowrev" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "flowrev",
		Short: "Editorial production board for monthly publications",
	}

	root.AddCommand(
		newProductCmd(app),
		newTypeCmd(app),
		newUserCmd(app),
		newEditionCmd(app),
		newInsumoCmd(app),
		newDashboardCmd(app),
		newImportCmd(app),
		newBoardCmd(app),
		newCalendarCmd(app),
	)

	return root
}
