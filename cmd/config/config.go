package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mattsolo1/notesplusplus/pkg/host"
	"github.com/mattsolo1/notesplusplus/pkg/paths"
	"github.com/mattsolo1/notesplusplus/pkg/service"
)

const appName = "notesplusplus"

var (
	cfgFile         string
	ProjectOverride string
)

func InitConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(filepath.Join(xdg.ConfigHome, appName))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("NOTESPP")
	viper.AutomaticEnv()

	home, _ := os.UserHomeDir()
	viper.SetDefault("base_dir", home)
	viper.SetDefault("data_dir", filepath.Join(xdg.DataHome, appName))
	viper.SetDefault("backend", service.BackendFS)
	viper.SetDefault("db_path", "")
	viper.SetDefault("notes_dir", paths.DefaultNotesDir)
	viper.SetDefault("legacy_dir", paths.DefaultLegacyDir)
	viper.SetDefault("attachment_limit", host.DefaultAttachmentLimit)
	viper.SetDefault("project_file", filepath.Join(xdg.StateHome, appName, "project"))
	viper.SetDefault("log_level", "warn")

	// A missing config file is fine; defaults and env cover everything.
	_ = viper.ReadInConfig()
}

// NewLogger builds the process logger from the configured level.
func NewLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	level, err := logrus.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		level = logrus.WarnLevel
	}
	logger.SetLevel(level)
	return logrus.NewEntry(logger).WithField("app", appName)
}

// ServiceConfig maps the viper settings onto the service configuration.
func ServiceConfig() *service.Config {
	return &service.Config{
		BaseDir:         viper.GetString("base_dir"),
		DataDir:         viper.GetString("data_dir"),
		Backend:         viper.GetString("backend"),
		DBPath:          viper.GetString("db_path"),
		NotesDir:        viper.GetString("notes_dir"),
		LegacyDir:       viper.GetString("legacy_dir"),
		AttachmentLimit: viper.GetInt64("attachment_limit"),
	}
}

// ProjectFile returns the file that records the current project.
func ProjectFile() *host.FileSource {
	return host.NewFileSource(afero.NewOsFs(), viper.GetString("project_file"))
}

// ProjectSource picks where the current project comes from: the
// --project flag when given, the project file otherwise.
func ProjectSource(override string) host.ProjectSource {
	if override != "" {
		return host.NewStaticSource(&host.Project{ID: override, Name: override})
	}
	return ProjectFile()
}

func InitService(logger *logrus.Entry) (*service.Service, error) {
	svc, err := service.New(ServiceConfig(), ProjectSource(ProjectOverride), service.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize service: %w", err)
	}
	return svc, nil
}

func AddGlobalFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $XDG_CONFIG_HOME/notesplusplus/config.yaml)")
	cmd.PersistentFlags().StringVarP(&ProjectOverride, "project", "P", "", "Override the current project by id")
}
