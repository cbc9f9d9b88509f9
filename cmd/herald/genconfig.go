package herald

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/herald/pkg/config"
	"github.com/arthur-debert/herald/pkg/errors"
)

func newGenConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "gen-config",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		Example: MsgGenConfigExample,
		GroupID: "core",
		RunE: func(cmd *cobra.Command, args []string) error {
			write, _ := cmd.Flags().GetBool("write")
			template, _ := cmd.Flags().GetBool("template")

			var rendered string
			if template {
				rendered = config.TemplateTOML()
			} else {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf(MsgErrLoadConfig, err)
				}
				rendered, err = config.EffectiveTOML(cfg)
				if err != nil {
					return err
				}
			}

			if !write {
				fmt.Fprint(cmd.OutOrStdout(), rendered)
				return nil
			}

			path := config.ConfigFilePath()
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "cannot create config directory %s", filepath.Dir(path))
			}
			if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
				return errors.Wrapf(err, errors.ErrInternal, "cannot write config file %s", path)
			}

			fmt.Fprintf(cmd.OutOrStdout(), MsgConfigWritten, path)
			return nil
		},
	}

	cmd.Flags().BoolP("write", "w", false, MsgFlagWrite)
	cmd.Flags().Bool("template", false, MsgFlagTemplate)

	return cmd
}
