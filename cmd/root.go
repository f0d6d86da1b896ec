// file: cmd/root.go
// version: 1.2.0
// guid: 7f8a9b0c-1d2e-3f4a-5b6c-7d8e9f0a1b2c

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gramseva/gazetteer/internal/config"
	"github.com/gramseva/gazetteer/internal/database"
	"github.com/gramseva/gazetteer/internal/gazetteer"
	"github.com/gramseva/gazetteer/internal/importer"
	"github.com/gramseva/gazetteer/internal/server"
)

var cfgFile string
var databasePath string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "gazetteer",
	Short: "Typo-tolerant search over the State/District/Mandal/Village hierarchy",
	Long: `Gazetteer maintains a four-level Indian administrative hierarchy
(State, District, Mandal, Village) with localized names, and answers
search queries that tolerate typos, transliteration drift, and local
nicknames like "vizag" for Visakhapatnam.`,
}

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start the HTTP server exposing search, place CRUD, and translation endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		fmt.Printf("Using database: %s\n", config.AppConfig.DatabasePath)

		srv := server.NewServer(database.GlobalStore)
		cfg := server.ServerConfig{
			Host:         config.AppConfig.Host,
			Port:         config.AppConfig.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		}

		if rt := cmd.Flag("read-timeout").Value.String(); rt != "" {
			if d, err := time.ParseDuration(rt); err == nil {
				cfg.ReadTimeout = d
			}
		}
		if wt := cmd.Flag("write-timeout").Value.String(); wt != "" {
			if d, err := time.ParseDuration(wt); err == nil {
				cfg.WriteTimeout = d
			}
		}
		if it := cmd.Flag("idle-timeout").Value.String(); it != "" {
			if d, err := time.ParseDuration(it); err == nil {
				cfg.IdleTimeout = d
			}
		}

		return srv.Start(cfg)
	},
}

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <csv-file>",
	Short: "Bulk-import places from CSV",
	Long: `Import administrative boundaries from a CSV file with the layout
state,district,mandal,village and optional trailing language columns
holding village name translations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open CSV: %w", err)
		}
		defer f.Close()

		im := importer.New(database.GlobalStore)
		im.ShowProgress = true
		if tenant, _ := cmd.Flags().GetString("tenant"); tenant != "" {
			im.TenantID = &tenant
		}

		fmt.Printf("Importing places from %s into %s\n", args[0], config.AppConfig.DatabasePath)
		result, err := im.ImportCSV(cmd.Context(), f)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Printf("Processed %d rows (%d skipped)\n", result.Rows, result.Skipped)
		for _, t := range gazetteer.SearchableTypes {
			if n := result.Created[t]; n > 0 {
				fmt.Printf("- created %d %s records\n", n, strings.ToLower(string(t)))
			}
		}
		if result.Existing > 0 {
			fmt.Printf("- matched %d existing records\n", result.Existing)
		}
		if len(result.Warnings) > 0 {
			fmt.Printf("%d warnings, see the log above\n", len(result.Warnings))
		}
		return nil
	},
}

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search places from the command line",
	Long:  `Run one search against the local database and print the ranked results.`,
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := database.InitializeStore(config.AppConfig.DatabasePath); err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer database.CloseStore()

		req := gazetteer.SearchRequest{Query: strings.Join(args, " ")}
		req.Limit, _ = cmd.Flags().GetInt("limit")
		req.IncludeSuggestion, _ = cmd.Flags().GetBool("suggest")
		if tenant, _ := cmd.Flags().GetString("tenant"); tenant != "" {
			req.TenantID = &tenant
		}
		if types, _ := cmd.Flags().GetString("types"); types != "" {
			for _, part := range strings.Split(types, ",") {
				part = strings.ToUpper(strings.TrimSpace(part))
				if part != "" {
					req.Types = append(req.Types, gazetteer.EntityType(part))
				}
			}
		}

		engine := gazetteer.NewEngine(database.GlobalStore)
		results := engine.Search(context.Background(), req)

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No results")
			return nil
		}
		for i, r := range results {
			if r.Type == gazetteer.TypeSuggestion {
				fmt.Printf("%2d. (new village?) %s\n", i+1, r.Name)
				continue
			}
			fmt.Printf("%2d. [%s] %s (score %.0f)\n", i+1, r.Type, r.DisplayName, r.Score)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.gazetteer.yaml)")
	rootCmd.PersistentFlags().StringVar(&databasePath, "db", "gazetteer.db", "path to the SQLite database")

	viper.BindPFlag("database_path", rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(searchCmd)

	serveCmd.Flags().Int("port", 8080, "port to run the server on")
	serveCmd.Flags().String("host", "0.0.0.0", "host to bind the server to")
	serveCmd.Flags().String("read-timeout", "15s", "read timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("write-timeout", "15s", "write timeout (e.g. 15s, 1m)")
	serveCmd.Flags().String("idle-timeout", "60s", "idle timeout (e.g. 60s, 2m)")
	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("host", serveCmd.Flags().Lookup("host"))

	importCmd.Flags().String("tenant", "", "tenant id to scope imported villages")

	searchCmd.Flags().Int("limit", 0, "max results (1..50, default 20)")
	searchCmd.Flags().String("types", "", "comma-separated subset of STATE,DISTRICT,MANDAL,VILLAGE")
	searchCmd.Flags().Bool("suggest", false, "include the synthetic new-village suggestion")
	searchCmd.Flags().String("tenant", "", "tenant id scoping village results")
	searchCmd.Flags().Bool("json", false, "print results as JSON")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".gazetteer")
	}

	viper.SetEnvPrefix("GAZETTEER")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}

	config.InitConfig()
}
