package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mattsolo1/notesplusplus/pkg/service"
)

func NewExportCmd(svc **service.Service) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export a note as markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, ok, err := unwrap((*svc).ExportMarkdown(args[0]))
			if !ok {
				return err
			}
			if output == "" {
				fmt.Fprint(cmd.OutOrStdout(), md)
				return nil
			}
			if err := os.WriteFile(output, []byte(md), 0644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", args[0], output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")

	return cmd
}

func NewAttachmentCmd(svc **service.Service) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attachment <file>",
		Short: "Print a file referenced from a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := (*svc).ReadAttachment(args[0]).Unwrap()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	return cmd
}
