package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"taxifleet/pkg/logger"
	"taxifleet/pkg/models"
	"taxifleet/service"
	"taxifleet/storage"
)

func newMigrateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending schema migrations",
		Long: `Open the configured store, applying any pending migrations.

SQL backends migrate on open, so this is the same step the server runs
at startup, available without starting it.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a.log.Info("schema is up to date", logger.String("driver", a.cfg.DBDriver))
			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s store\n", a.cfg.DBDriver)
			return nil
		},
	}
}

func newCreateDriverCmd(a *app) *cobra.Command {
	var form models.DriverForm

	cmd := &cobra.Command{
		Use:   "createdriver",
		Short: "Create a driver account that can log in",
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Password2 = form.Password1
			d, err := a.svc.Driver().Create(cmd.Context(), form)
			var verr *service.ValidationError
			if errors.As(err, &verr) {
				for field, msgs := range verr.Fields {
					for _, msg := range msgs {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", field, msg)
					}
				}
				return errors.New("driver not created")
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "created driver %q with id %d\n", d.Username, d.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Username, "username", "", "login name")
	cmd.Flags().StringVar(&form.Password1, "password", "", "password, at least 8 characters")
	cmd.Flags().StringVar(&form.LicenseNumber, "license", "", "license number, e.g. ABC12345")
	cmd.Flags().StringVar(&form.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&form.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&form.Email, "email", "", "email address")
	_ = cmd.MarkFlagRequired("username")
	_ = cmd.MarkFlagRequired("password")
	_ = cmd.MarkFlagRequired("license")
	return cmd
}

func newResetDBCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "resetdb",
		Short: "Delete every manufacturer, car and driver",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to wipe the store without --yes")
			}
			if err := a.stg.Reset(cmd.Context()); err != nil {
				a.log.Error("failed to reset store", logger.Error(err))
				return err
			}
			a.log.Info("store reset", logger.String("driver", a.cfg.DBDriver))
			fmt.Fprintln(cmd.OutOrStdout(), "store reset")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "confirm deleting all data")
	return cmd
}

var seedFleet = []struct {
	manufacturer models.ManufacturerForm
	cars         []string
}{
	{models.ManufacturerForm{Name: "Chevrolet", Country: "USA"}, []string{"Cobalt", "Lacetti", "Malibu"}},
	{models.ManufacturerForm{Name: "Toyota", Country: "Japan"}, []string{"Camry", "Corolla"}},
	{models.ManufacturerForm{Name: "Kia", Country: "South Korea"}, []string{"K5", "Rio"}},
	{models.ManufacturerForm{Name: "BYD", Country: "China"}, []string{"Han", "Song Plus"}},
}

func newSeedCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load sample manufacturers and cars",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			created := 0
			for _, entry := range seedFleet {
				m, err := a.stg.Manufacturer().GetByName(ctx, entry.manufacturer.Name)
				if errors.Is(err, storage.ErrNotFound) {
					m, err = a.svc.Manufacturer().Create(ctx, entry.manufacturer)
				}
				if err != nil {
					return fmt.Errorf("seed manufacturer %s: %w", entry.manufacturer.Name, err)
				}

				existing, err := a.stg.Car().List(ctx, "")
				if err != nil {
					return err
				}
				for _, model := range entry.cars {
					if hasCar(existing, m.ID, model) {
						continue
					}
					form := models.CarForm{Model: model, Manufacturer: strconv.FormatInt(m.ID, 10)}
					if _, err := a.svc.Car().Create(ctx, form); err != nil {
						return fmt.Errorf("seed car %s: %w", model, err)
					}
					created++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d cars\n", created)
			return nil
		},
	}
}

func hasCar(cars []*models.Car, manufacturerID int64, model string) bool {
	for _, c := range cars {
		if c.ManufacturerID == manufacturerID && c.Model == model {
			return true
		}
	}
	return false
}
