package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"appforge/internal/app"
	"appforge/internal/config"
	"appforge/internal/logging"
	"appforge/pkg/models"
)

var rootCmd = &cobra.Command{
	Use:   "forge",
	Short: "Forge CLI",
	Long: `Forge generates, deploys, and manages Streamlit applications using an
autonomous agent team. Projects live under a local projects directory and
are tracked in a single JSON registry; 'forge create' runs the full
architecture/design/development/testing pipeline (or a basic template when
no agent backend is configured), and the deploy commands manage the
resulting apps as local processes.`,
}

func main() {
	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	registerCommands()
	defer logging.Sync()
	if err := rootCmd.Execute(); err != nil {
		fmt.Println("error:", err)
		os.Exit(1)
	}
}

func initConfig() {
	viper.SetEnvPrefix("FORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("projects-dir", "forge_projects", "projects directory")
	rootCmd.PersistentFlags().Bool("json", false, "output JSON")
	rootCmd.PersistentFlags().Bool("debug", false, "verbose logging")
	_ = viper.BindPFlag("projects_dir", rootCmd.PersistentFlags().Lookup("projects-dir"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func registerCommands() {
	rootCmd.AddCommand(createCmd())
	rootCmd.AddCommand(listCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(deployCmd())
	rootCmd.AddCommand(stopCmd())
	rootCmd.AddCommand(stopAllCmd())
	rootCmd.AddCommand(deleteCmd())
	rootCmd.AddCommand(logsCmd())
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(cleanupCmd())
	rootCmd.AddCommand(toolsCmd())
}

// newContext loads configuration and builds the application context. No
// agent backend is wired by default; generation falls back to basic
// templates until one is configured.
func newContext() (*app.Context, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, nil)
}

func createCmd() *cobra.Command {
	var name, appType, description string
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create and generate a new application",
		RunE: func(cmd *cobra.Command, args []string) error {
			if name == "" {
				return fmt.Errorf("--name is required")
			}
			c, err := newContext()
			if err != nil {
				return err
			}
			p, err := c.CreateProject(cmd.Context(), name, models.ParseAppType(appType), description)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(p)
			}
			fmt.Printf("%s Created %s (%s)\n", p.Type.Icon(), p.Name, p.ID)
			fmt.Printf("  status: %s\n  path:   %s\n", p.Status, p.Path)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "application name")
	cmd.Flags().StringVar(&appType, "type", "custom", "application type (see 'forge templates')")
	cmd.Flags().StringVar(&description, "description", "", "what the application should do")
	return cmd
}

func listCmd() *cobra.Command {
	var status string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			projects := c.Registry.List(models.AppStatus(status))
			if viper.GetBool("json") {
				return printJSON(projects)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"ID", "Name", "Type", "Status", "URL", "Created"})
			for _, p := range projects {
				tw.AppendRow(table.Row{
					p.ID, p.Name,
					fmt.Sprintf("%s %s", p.Type.Icon(), p.Type),
					p.Status, p.URL,
					p.CreatedAt.Format("2006-01-02 15:04"),
				})
			}
			tw.Render()
			return nil
		},
	}
	cmd.Flags().StringVar(&status, "status", "", "filter by status")
	return cmd
}

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <project-id>",
		Short: "Show project details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			p, err := c.Registry.Get(args[0])
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(p)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendRow(table.Row{"ID", p.ID})
			tw.AppendRow(table.Row{"Name", p.Name})
			tw.AppendRow(table.Row{"Type", fmt.Sprintf("%s %s", p.Type.Icon(), p.Type)})
			tw.AppendRow(table.Row{"Status", p.Status})
			tw.AppendRow(table.Row{"Path", p.Path})
			tw.AppendRow(table.Row{"Port", p.Port})
			tw.AppendRow(table.Row{"URL", p.URL})
			tw.AppendRow(table.Row{"Created", p.CreatedAt.Format("2006-01-02 15:04:05")})
			tw.AppendRow(table.Row{"Updated", p.UpdatedAt.Format("2006-01-02 15:04:05")})
			tw.Render()
			return nil
		},
	}
}

func deployCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deploy <project-id>",
		Short: "Run a generated application locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			p, err := c.Registry.Get(args[0])
			if err != nil {
				return err
			}
			result, err := c.Deployer.Deploy(p)
			if err != nil {
				return err
			}
			if viper.GetBool("json") {
				return printJSON(result)
			}
			fmt.Printf("%s %s running at %s (pid %d)\n", p.Type.Icon(), p.Name, result.URL, result.ProcessID)
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop <project-id>",
		Short: "Stop a running application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			p, err := c.Registry.Get(args[0])
			if err != nil {
				return err
			}
			if err := c.Deployer.Stop(p); err != nil {
				return err
			}
			fmt.Printf("Stopped %s (%s)\n", p.Name, p.ID)
			return nil
		},
	}
}

func stopAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop-all",
		Short: "Stop every running application",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			fmt.Printf("Stopped %d project(s)\n", c.Deployer.StopAll())
			return nil
		},
	}
}

func deleteCmd() *cobra.Command {
	var keepFiles bool
	cmd := &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			if err := c.DeleteProject(args[0], !keepFiles); err != nil {
				return err
			}
			fmt.Printf("Deleted %s\n", args[0])
			return nil
		},
	}
	cmd.Flags().BoolVar(&keepFiles, "keep-files", false, "keep the project tree on disk")
	return cmd
}

func logsCmd() *cobra.Command {
	var lines int
	cmd := &cobra.Command{
		Use:   "logs <project-id>",
		Short: "Show an application's log tail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			p, err := c.Registry.Get(args[0])
			if err != nil {
				return err
			}
			out, err := c.Deployer.Logs(p, lines)
			if err != nil {
				return err
			}
			for _, line := range out {
				fmt.Println(line)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&lines, "lines", 50, "number of trailing lines")
	return cmd
}

func templatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available application types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := models.AllTypes()
			if viper.GetBool("json") {
				return printJSON(types)
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Type", "Icon"})
			for _, t := range types {
				tw.AppendRow(table.Row{t, t.Icon()})
			}
			tw.Render()
			return nil
		},
	}
}

func cleanupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cleanup",
		Short: "Reconcile registry entries with running processes",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			fmt.Printf("Cleaned up %d orphaned project(s)\n", c.Deployer.CleanupOrphans())
			return nil
		},
	}
}

func toolsCmd() *cobra.Command {
	tools := &cobra.Command{Use: "tools", Short: "Manage CLI tools"}
	tools.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List registered tools",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := newContext()
			if err != nil {
				return err
			}
			tw := table.NewWriter()
			tw.SetOutputMirror(os.Stdout)
			tw.AppendHeader(table.Row{"Name", "Description"})
			for _, t := range c.Tools.List() {
				tw.AppendRow(table.Row{t.Name(), t.Description()})
			}
			tw.Render()
			return nil
		},
	})
	return tools
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
