package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-formwidgets"
	"github.com/goliatone/go-formwidgets/pkg/choices"
	"github.com/goliatone/go-formwidgets/pkg/widgets"
)

func newRenderCommand() *cobra.Command {
	var (
		entityFlag string
		name       string
		value      string
		withMedia  bool
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the markup of one configured widget",
		RunE: func(cmd *cobra.Command, _ []string) error {
			entity, err := choices.ParseEntityType(entityFlag)
			if err != nil {
				return err
			}
			cfg, err := loadConfig(getOptions(cmd))
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd, cfg)
			if err != nil {
				return err
			}

			app, err := formwidgets.NewApp(cfg, logger)
			if err != nil {
				return err
			}
			defer app.Close()

			field, ok := findField(app, entity)
			if !ok {
				return fmt.Errorf("entity %s is not configured", entity)
			}
			if name == "" {
				name = field.Name
			}

			markup, err := field.Widget.Render(cmd.Context(), widgets.RenderContext{
				Name:  name,
				Value: value,
				Scope: choices.Unrestricted(),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if withMedia {
				fmt.Fprint(out, field.Widget.Media().HTML())
			}
			fmt.Fprintln(out, markup)
			return nil
		},
	}

	cmd.Flags().StringVar(&entityFlag, "entity", "", "Entity type as app.model")
	cmd.Flags().StringVar(&name, "name", "", "Form field name (defaults to the model name)")
	cmd.Flags().StringVar(&value, "value", "", "Current identifier")
	cmd.Flags().BoolVar(&withMedia, "media", false, "Print the widget's link and script tags first")
	_ = cmd.MarkFlagRequired("entity")
	return cmd
}

func findField(app *formwidgets.App, entity choices.EntityType) (formwidgets.Field, bool) {
	for _, field := range app.Fields() {
		if field.Entity.Key() == entity.Key() {
			return field, true
		}
	}
	return formwidgets.Field{}, false
}
