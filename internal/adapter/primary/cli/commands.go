package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"client-manager/internal/adapter/secondary/repository"
	"client-manager/internal/domain"
	"client-manager/internal/usecase"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the registry and the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return readManager(func(uc usecase.ClientManager) error {
				printFrame(cmd.OutOrStdout(), uc.Current())
				return nil
			})
		},
	}
}

func newNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new draft (no-op while one is open)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(uc usecase.ClientManager) error {
				frame, err := uc.BeginDraft()
				if err != nil {
					return err
				}
				if frame.Started {
					fmt.Fprintln(cmd.OutOrStdout(), "draft started")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "a draft is already open")
				}
				return nil
			})
		},
	}
}

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Inspect or edit the open draft",
	}
	cmd.AddCommand(newDraftSetCmd())
	return cmd
}

func newDraftSetCmd() *cobra.Command {
	var (
		name     string
		minValue float64
		maxValue float64
	)
	cmd := &cobra.Command{
		Use:   "set",
		Short: "Edit the draft's name and frequency range",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var edit domain.DeviceEdit
			if cmd.Flags().Changed("name") {
				edit.Name = &name
			}
			if cmd.Flags().Changed("min") {
				edit.FrequencyMin = &minValue
			}
			if cmd.Flags().Changed("max") {
				edit.FrequencyMax = &maxValue
			}
			return withManager(func(uc usecase.ClientManager) error {
				frame, err := uc.EditDraft(edit)
				if err != nil {
					return err
				}
				d := frame.Draft
				fmt.Fprintf(cmd.OutOrStdout(), "draft: %q %s - %s\n", d.Name, formatFrequency(d.FrequencyMin), formatFrequency(d.FrequencyMax))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "device name")
	cmd.Flags().Float64Var(&minValue, "min", 0, "lower frequency bound (0-10000)")
	cmd.Flags().Float64Var(&maxValue, "max", 0, "upper frequency bound (0-10000)")
	return cmd
}

func newFinishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "finish",
		Short: "Commit the draft into the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(uc usecase.ClientManager) error {
				frame, err := uc.CommitDraft()
				if err != nil {
					if frame.Warn {
						fmt.Fprintln(cmd.OutOrStdout(), domain.WarnMessage)
					}
					return err
				}
				for _, name := range frame.Committed {
					fmt.Fprintf(cmd.OutOrStdout(), "added %q\n", name)
				}
				return nil
			})
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Discard the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withManager(func(uc usecase.ClientManager) error {
				frame, err := uc.CancelDraft()
				if err != nil {
					return err
				}
				if frame.Cancelled {
					fmt.Fprintln(cmd.OutOrStdout(), "draft discarded")
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), "no draft to discard")
				}
				return nil
			})
		},
	}
}

func newRangeCmd() *cobra.Command {
	var minValue, maxValue float64
	cmd := &cobra.Command{
		Use:   "range <index>",
		Short: "Change a device's frequency range",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			var edit domain.DeviceEdit
			if cmd.Flags().Changed("min") {
				edit.FrequencyMin = &minValue
			}
			if cmd.Flags().Changed("max") {
				edit.FrequencyMax = &maxValue
			}
			return withManager(func(uc usecase.ClientManager) error {
				// Indexes address the list before compaction; the result is matched by name.
				var name string
				if before := uc.Current().Devices; index >= 0 && index < len(before) {
					name = before[index].Name
				}
				frame, err := uc.EditDevice(index, edit)
				if err != nil {
					return err
				}
				d, ok := findDevice(frame.Devices, name)
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: pending removal, dropped\n", name)
					return nil
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s - %s\n", d.Name, formatFrequency(d.FrequencyMin), formatFrequency(d.FrequencyMax))
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&minValue, "min", 0, "lower frequency bound (0-10000)")
	cmd.Flags().Float64Var(&maxValue, "max", 0, "upper frequency bound (0-10000)")
	return cmd
}

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index>",
		Short: "Remove a device from the registry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			return withManager(func(uc usecase.ClientManager) error {
				frame, err := uc.RemoveDevice(index)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d device(s), %d left\n", frame.Removed, len(frame.Devices))
				return nil
			})
		},
	}
}

func newStateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Inspect the persisted state",
	}
	cmd.AddCommand(newStateGetCmd())
	return cmd
}

func newStateGetCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "get",
		Short: "Print the whole state document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := repository.ParseFormat(format)
			if err != nil {
				return err
			}
			return readManager(func(uc usecase.ClientManager) error {
				out, err := repository.Marshal(uc.Snapshot(), f)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")
	return cmd
}

func printFrame(w io.Writer, frame domain.Frame) {
	fmt.Fprintln(w, frame.Label)
	if frame.Draft != nil {
		d := frame.Draft
		fmt.Fprintf(w, "draft: %q %s - %s\n", d.Name, formatFrequency(d.FrequencyMin), formatFrequency(d.FrequencyMax))
	}
	if frame.Warn {
		fmt.Fprintln(w, domain.WarnMessage)
	}
	if len(frame.Devices) == 0 {
		fmt.Fprintln(w, "no devices")
		return
	}
	for _, d := range frame.Devices {
		line := fmt.Sprintf("%3d  %-20s %s - %s", d.Index, d.Name, formatFrequency(d.FrequencyMin), formatFrequency(d.FrequencyMax))
		if d.Inverted {
			line += "  (inverted)"
		}
		fmt.Fprintln(w, line)
	}
}

func findDevice(devices []domain.DeviceView, name string) (domain.DeviceView, bool) {
	for _, d := range devices {
		if d.Name == name {
			return d, true
		}
	}
	return domain.DeviceView{}, false
}

func formatFrequency(v float64) string {
	return fmt.Sprintf("%g", v)
}
