// Package main provides a CLI tool for inspecting and repairing the trial
// record of a user directly in the database. It supports three actions:
// 1. get: displays the stored record and the state derived from it
// 2. set: overrides some fields of an existing record
// 3. delete: removes the record so the user can start a new trial
package main

import (
	"encoding/json"
	"fmt"

	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/vocdoni/saas-billing/db"
	"github.com/vocdoni/saas-billing/internal"
	"github.com/vocdoni/saas-billing/trials"
	"go.vocdoni.io/dvote/log"
)

func main() {
	// Define command-line flags
	flag.StringP("action", "a", "get", "Action to run: get, set or delete")
	flag.StringP("userID", "u", "", "User ID (email) to query (required)")
	flag.StringP("mongoURL", "m", "", "MongoDB connection URL")
	flag.StringP("mongoDB", "d", "saas-billing", "MongoDB database name")
	flag.Int("messagesUsed", 0, "set: messages consumed so far")
	flag.Int("messagesLimit", 0, "set: total messages granted")
	flag.String("trialEnd", "", "set: end of the trial (RFC 3339)")
	flag.Bool("active", true, "set: whether the trial is active")

	// Parse flags
	flag.Parse()

	// Initialize Viper for environment variable support
	viper.SetEnvPrefix("VOCDONI")
	if err := viper.BindPFlags(flag.CommandLine); err != nil {
		log.Fatalf("could not bind flags: %v", err)
	}
	viper.AutomaticEnv()

	// Read configuration
	action := viper.GetString("action")
	userID := viper.GetString("userID")
	mongoURL := viper.GetString("mongoURL")
	mongoDB := viper.GetString("mongoDB")
	// Initialize logger
	log.Init("info", "stdout", nil)

	// Validate required parameters
	if userID == "" {
		log.Fatal("userID is required")
	}
	if mongoURL == "" {
		log.Fatal("mongoURL is required")
	}

	// Initialize MongoDB database
	database, err := db.New(mongoURL, mongoDB)
	if err != nil {
		log.Fatalf("could not connect to MongoDB: %v", err)
	}
	defer database.Close()

	switch action {
	case "get":
		err = showTrial(database, userID)
	case "set":
		err = repairTrial(database, userID)
	case "delete":
		if err = database.DeleteTrial(userID); err == nil {
			fmt.Printf("Trial of %s deleted\n", userID)
		}
	default:
		err = fmt.Errorf("unknown action %q", action)
	}
	if err != nil {
		log.Fatalf("%s failed: %v", action, err)
	}
}

// showTrial prints the stored record and the state the API would answer with.
func showTrial(database *db.MongoStorage, userID string) error {
	trial, err := database.Trial(userID)
	if err != nil {
		return fmt.Errorf("failed to get trial: %w", err)
	}
	printSectionHeader("STORED TRIAL RECORD")
	printJSON("Record", trial)

	printSectionHeader("TRIAL STATE")
	state, err := trials.StateFromData(trial)
	if err != nil {
		fmt.Println("Status: INCONSISTENT")
		fmt.Printf("Reason: %v\n", err)
		return nil
	}
	fmt.Println("Status: OK")
	printJSON("State", state)
	return nil
}

// repairTrial overrides the fields given on the command line and stores the
// record back once it maps to a valid state.
func repairTrial(database *db.MongoStorage, userID string) error {
	trial, err := database.Trial(userID)
	if err != nil {
		return fmt.Errorf("failed to get trial: %w", err)
	}
	if flag.CommandLine.Changed("messagesUsed") {
		trial.MessagesUsed = viper.GetInt("messagesUsed")
	}
	if flag.CommandLine.Changed("messagesLimit") {
		trial.MessagesLimit = viper.GetInt("messagesLimit")
	}
	if flag.CommandLine.Changed("trialEnd") {
		end, err := internal.ParseTimestamp(viper.GetString("trialEnd"))
		if err != nil {
			return err
		}
		trial.TrialEnd = internal.FormatTimestamp(end)
	}
	if flag.CommandLine.Changed("active") {
		trial.IsActive = viper.GetBool("active")
	}
	// bookkeeping is refreshed by SetTrial, check the rest before writing
	trial.UpdatedAt = trial.CreatedAt
	if _, err := trials.StateFromData(trial); err != nil {
		return err
	}
	if err := database.SetTrial(trial); err != nil {
		return fmt.Errorf("failed to store trial: %w", err)
	}
	log.Infow("trial updated", "user", userID)
	return showTrial(database, userID)
}

// printSectionHeader prints a formatted section header
func printSectionHeader(title string) {
	fmt.Println()
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Printf("  %s\n", title)
	fmt.Println("═══════════════════════════════════════════════════════════════")
	fmt.Println()
}

// printJSON prints data as formatted JSON
func printJSON(title string, data any) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		fmt.Printf("Error formatting data: %v\n", err)
		return
	}
	fmt.Printf("%s:\n%s\n", title, string(jsonData))
}
