package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jhoicas/onboarding-api/internal/app"
	"github.com/jhoicas/onboarding-api/internal/application/dto"
	"github.com/jhoicas/onboarding-api/internal/application/renewal"
	"github.com/jhoicas/onboarding-api/internal/domain/entity"
)

// builder construye el contenedor de servicios; los tests inyectan uno en memoria.
type builder func(ctx context.Context) (*app.Container, error)

type cli struct {
	build builder
	out   io.Writer
}

func newRootCmd(build builder, out io.Writer) *cobra.Command {
	c := &cli{build: build, out: out}
	rootCmd := &cobra.Command{
		Use:           "onboardctl",
		Short:         "Tareas operativas del onboarding de empresas",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.SetOut(out)

	rootCmd.AddCommand(c.migrateCmd())
	rootCmd.AddCommand(c.renewalsCmd())
	rootCmd.AddCommand(c.paymentsCmd())
	rootCmd.AddCommand(c.invoicesCmd())
	rootCmd.AddCommand(c.requirementsCmd())
	rootCmd.AddCommand(c.usersCmd())
	return rootCmd
}

// with construye el contenedor, ejecuta fn y lo cierra.
func (c *cli) with(cmd *cobra.Command, fn func(ctx context.Context, ct *app.Container) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ct, err := c.build(ctx)
	if err != nil {
		return err
	}
	defer ct.Close()
	return fn(ctx, ct)
}

func (c *cli) print(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones SQL pendientes",
		Long: `Aplica las migraciones embebidas sobre la base configurada.

Con APP_STORE=memory no hay nada que migrar.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				fmt.Fprintf(c.out, "store %s listo\n", ct.Config.App.Store)
				return nil
			})
		},
	}
}

func (c *cli) renewalsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "renewals",
		Short: "Recordatorios de renovación",
	}

	var date string
	run := &cobra.Command{
		Use:   "run",
		Short: "Ejecuta el lote diario de recordatorios",
		Long: `Ejecuta el lote de recordatorios para hoy (UTC) o para --date.

Ejemplos:
  onboardctl renewals run
  onboardctl renewals run --date 2025-03-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var day time.Time
			if date != "" {
				d, err := time.Parse(time.DateOnly, date)
				if err != nil {
					return fmt.Errorf("--date debe tener formato AAAA-MM-DD: %w", err)
				}
				day = d
			}
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				var (
					rep *renewal.BatchReport
					err error
				)
				if day.IsZero() {
					rep, err = ct.Renewals.RunToday(ctx)
				} else {
					rep, err = ct.Renewals.RunDaily(ctx, day)
				}
				if err != nil {
					return err
				}
				return c.print(rep)
			})
		},
	}
	run.Flags().StringVar(&date, "date", "", "fecha de referencia AAAA-MM-DD (por defecto hoy)")

	cmd.AddCommand(run)
	return cmd
}

func (c *cli) paymentsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payments",
		Short: "Operaciones sobre pagos",
	}

	var providerID string
	markPaid := &cobra.Command{
		Use:   "mark-paid [payment-id]",
		Short: "Marca un pago como pagado (conciliación manual)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				p, err := ct.Payments.MarkPaidManually(ctx, args[0], providerID)
				if err != nil {
					return err
				}
				return c.print(dto.FromPayment(p))
			})
		},
	}
	markPaid.Flags().StringVar(&providerID, "provider-id", "", "id del pago en el proveedor")

	replay := &cobra.Command{
		Use:   "replay [payment-id]",
		Short: "Reintenta factura y etapa de un pago ya pagado",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				inv, err := ct.Payments.ReplayDownstream(ctx, args[0])
				if err != nil {
					return err
				}
				return c.print(dto.FromInvoice(inv))
			})
		},
	}

	cmd.AddCommand(markPaid, replay)
	return cmd
}

func (c *cli) invoicesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invoices",
		Short: "Operaciones sobre facturas",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "resend [invoice-id]",
		Short: "Regenera el PDF si falta y reenvía la factura por correo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				inv, err := ct.Invoices.Resend(ctx, args[0])
				if err != nil {
					return err
				}
				return c.print(dto.FromInvoice(inv))
			})
		},
	})
	return cmd
}

func (c *cli) requirementsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requirements",
		Short: "Requisitos de cumplimiento",
	}

	var encoding string
	importCmd := &cobra.Command{
		Use:   "import [file.csv]",
		Short: "Importa requisitos desde un CSV document_type,description",
		Long: `Importa requisitos desde un CSV con columnas document_type,description.
La cabecera es opcional. Los tipos ya registrados se omiten.

Ejemplos:
  onboardctl requirements import requisitos.csv
  onboardctl requirements import export_erp.csv --encoding latin1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("abrir %s: %w", args[0], err)
			}
			defer f.Close()
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				rep, err := ct.Compliance.ImportRequirements(ctx, f, encoding)
				if err != nil {
					return err
				}
				return c.print(rep)
			})
		},
	}
	importCmd.Flags().StringVar(&encoding, "encoding", "utf-8", "codificación del archivo (utf-8, latin1)")

	list := &cobra.Command{
		Use:   "list",
		Short: "Lista los requisitos vigentes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				reqs, err := ct.Compliance.ListRequirements(ctx)
				if err != nil {
					return err
				}
				out := make([]dto.RequirementResponse, 0, len(reqs))
				for _, r := range reqs {
					out = append(out, dto.FromRequirement(r))
				}
				return c.print(out)
			})
		},
	}

	cmd.AddCommand(importCmd, list)
	return cmd
}

func (c *cli) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Administración de usuarios",
	}

	var email, password, name string
	createAdmin := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario administrador (arranque inicial)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.with(cmd, func(ctx context.Context, ct *app.Container) error {
				u, err := ct.Auth.RegisterUser(ctx, dto.RegisterRequest{
					Email:    email,
					Password: password,
					Name:     name,
					Role:     entity.RoleAdmin,
				})
				if err != nil {
					return err
				}
				return c.print(u)
			})
		},
	}
	createAdmin.Flags().StringVar(&email, "email", "", "email del administrador")
	createAdmin.Flags().StringVar(&password, "password", "", "contraseña (mínimo 8 caracteres)")
	createAdmin.Flags().StringVar(&name, "name", "Administrador", "nombre visible")
	_ = createAdmin.MarkFlagRequired("email")
	_ = createAdmin.MarkFlagRequired("password")

	cmd.AddCommand(createAdmin)
	return cmd
}
