package cmd

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/bnema/zoompan/internal/config"
	"github.com/bnema/zoompan/internal/ui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Choose the input options interactively",
	Long: `Walk through the input options that matter most: the pan-zoom mode,
middle-button panning, touchpad detection and the speed multipliers.
The answers are saved to the configuration file.`,
	RunE: runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupAnswers holds the form values. Numbers stay strings while the form
// is open.
type setupAnswers struct {
	Mode           string
	MiddleMousePan bool
	AutoDetect     bool
	Resistance     string
	ZoomSpeed      string
	PanSpeed       string
	InvertVertical bool
}

func answersFrom(snap config.Snapshot) setupAnswers {
	return setupAnswers{
		Mode:           snap.PanZoomMode,
		MiddleMousePan: snap.MiddleMousePan,
		AutoDetect:     snap.AutoDetectTouchpad,
		Resistance:     snap.DragResistanceMode,
		ZoomSpeed:      strconv.FormatFloat(snap.ZoomSpeedMultiplier, 'f', -1, 64),
		PanSpeed:       strconv.FormatFloat(snap.PanSpeedMultiplier, 'f', -1, 64),
		InvertVertical: snap.InvertVerticalScroll,
	}
}

// apply stores every answer, stopping at the first invalid one
func (a setupAnswers) apply(store *config.Store) error {
	values := []struct {
		name  string
		value any
	}{
		{config.OptPanZoomMode, a.Mode},
		{config.OptMiddleMousePan, a.MiddleMousePan},
		{config.OptAutoDetectTouchpad, a.AutoDetect},
		{config.OptDragResistanceMode, a.Resistance},
		{config.OptZoomSpeedMultiplier, a.ZoomSpeed},
		{config.OptPanSpeedMultiplier, a.PanSpeed},
		{config.OptInvertVerticalScroll, a.InvertVertical},
	}
	for _, v := range values {
		if err := store.Set(v.name, v.value); err != nil {
			return err
		}
	}
	return nil
}

func choiceOptions(name string) []huh.Option[string] {
	opt, _ := config.Lookup(name)
	return huh.NewOptions(opt.Choices...)
}

func validateOption(name string) func(string) error {
	return func(s string) error {
		opt, ok := config.Lookup(name)
		if !ok {
			return fmt.Errorf("%w: %s", config.ErrUnknownOption, name)
		}
		_, err := opt.Normalize(s)
		return err
	}
}

func runSetup(cmd *cobra.Command, args []string) error {
	store := config.Options()
	answers := answersFrom(store.Snapshot())

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Pan/zoom mode").
				Description("Mouse: wheel zooms. Touchpad: two-finger scroll pans, pinch zooms. Alternative: wheel pans, ctrl+wheel zooms.").
				Options(choiceOptions(config.OptPanZoomMode)...).
				Value(&answers.Mode),
			huh.NewConfirm().
				Title("Pan with the middle mouse button?").
				Value(&answers.MiddleMousePan),
			huh.NewConfirm().
				Title("Detect touchpads automatically?").
				Description("Guesses per event; some mice are mistaken for touchpads.").
				Value(&answers.AutoDetect),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Drag resistance").
				Options(choiceOptions(config.OptDragResistanceMode)...).
				Value(&answers.Resistance),
			huh.NewInput().
				Title("Zoom speed multiplier").
				Description("0 keeps the fixed 5% step per notch.").
				Validate(validateOption(config.OptZoomSpeedMultiplier)).
				Value(&answers.ZoomSpeed),
			huh.NewInput().
				Title("Pan speed multiplier").
				Validate(validateOption(config.OptPanSpeedMultiplier)).
				Value(&answers.PanSpeed),
			huh.NewConfirm().
				Title("Invert vertical scrolling?").
				Value(&answers.InvertVertical),
		),
	)

	if err := form.Run(); err != nil {
		return fmt.Errorf("setup cancelled: %w", err)
	}

	if err := answers.apply(store); err != nil {
		return err
	}
	if err := config.Save(); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), ui.FormatResult(true, "Saved to "+config.GetConfigPath()))
	return nil
}
