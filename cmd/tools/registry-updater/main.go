// cmd/tools/registry-updater/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"career-guidance-workers/pkg/registry"

	mas "career-guidance-workers/internal/workers/assessment/manage-assessment-session"
	nar "career-guidance-workers/internal/workers/assessment/notify-assessment-result"
	ra "career-guidance-workers/internal/workers/assessment/record-assessment"
	sm "career-guidance-workers/internal/workers/catalog/search-majors"
	sp "career-guidance-workers/internal/workers/personality/score-personality"
	gr "career-guidance-workers/internal/workers/recommendation/generate-recommendations"
	cg "career-guidance-workers/internal/workers/transcript/calculate-gpa"
	vt "career-guidance-workers/internal/workers/transcript/validate-transcript"
)

// workerSchemas is the source of truth for input schemas; the registry copy
// is regenerated from it by the "schemas" command.
var workerSchemas = map[string]func() map[string]interface{}{
	vt.TaskType:  vt.GetInputSchema,
	cg.TaskType:  cg.GetInputSchema,
	sp.TaskType:  sp.GetInputSchema,
	gr.TaskType:  gr.GetInputSchema,
	sm.TaskType:  sm.GetInputSchema,
	mas.TaskType: mas.GetInputSchema,
	ra.TaskType:  ra.GetInputSchema,
	nar.TaskType: nar.GetInputSchema,
}

var registryPath string

func main() {
	addCmd := flag.NewFlagSet("add", flag.ExitOnError)
	updateCmd := flag.NewFlagSet("update", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	schemasCmd := flag.NewFlagSet("schemas", flag.ExitOnError)

	for _, fs := range []*flag.FlagSet{addCmd, updateCmd, validateCmd, schemasCmd} {
		fs.StringVar(&registryPath, "path", "configs/activity-registry.json", "Path to registry file")
	}

	idAdd := addCmd.String("id", "", "Activity ID (e.g., calculate-gpa)")
	displayName := addCmd.String("displayName", "", "Display Name (e.g., Calculate GPA)")
	description := addCmd.String("description", "", "Description")
	category := addCmd.String("category", "", "Category (e.g., transcript)")
	taskType := addCmd.String("taskType", "", "Camunda Task Type (e.g., calculate-gpa)")
	version := addCmd.String("version", "1.0.0", "Version")
	implStatus := addCmd.String("status", "planned", "Implementation Status (planned, in-progress, completed, verified)")

	idUpdate := updateCmd.String("id", "", "Activity ID to update")
	field := updateCmd.String("field", "", "Field to update (status, version, etc.)")
	value := updateCmd.String("value", "", "New value for the field")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "add":
		addCmd.Parse(os.Args[2:])
		if *idAdd == "" || *displayName == "" || *description == "" || *category == "" || *taskType == "" {
			fmt.Println("Error: id, displayName, description, category, and taskType are required for add.")
			addCmd.Usage()
			os.Exit(1)
		}
		activity := registry.Activity{
			ID:                   *idAdd,
			DisplayName:          *displayName,
			Description:          *description,
			Category:             *category,
			Version:              *version,
			TaskType:             *taskType,
			ImplementationStatus: *implStatus,
			InputSchema:          map[string]interface{}{},
			OutputSchema:         map[string]interface{}{},
			ErrorCodes:           []string{},
			Timeout:              "10s",
			Workflows:            []string{},
			Tags:                 []string{},
		}
		if schema, ok := workerSchemas[*taskType]; ok {
			activity.InputSchema = schema()
		}
		exitOnErr("adding activity", addActivity(&activity))
		fmt.Printf("Added activity: %s\n", *idAdd)

	case "update":
		updateCmd.Parse(os.Args[2:])
		if *idUpdate == "" || *field == "" || *value == "" {
			fmt.Println("Error: id, field, and value are required for update.")
			updateCmd.Usage()
			os.Exit(1)
		}
		exitOnErr("updating activity", updateActivity(*idUpdate, *field, *value))
		fmt.Printf("Updated activity %s, field %s to %s\n", *idUpdate, *field, *value)

	case "schemas":
		schemasCmd.Parse(os.Args[2:])
		n, err := syncSchemas()
		exitOnErr("syncing schemas", err)
		fmt.Printf("Refreshed input schemas for %d activities.\n", n)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		reg, err := registry.LoadRegistry(registryPath)
		exitOnErr("loading registry", err)
		exitOnErr("registry validation", reg.Validate())
		fmt.Printf("Registry validation passed. Found %d activities.\n", len(reg.Activities))

	default:
		help()
	}
}

func exitOnErr(action string, err error) {
	if err != nil {
		fmt.Printf("Error %s: %v\n", action, err)
		os.Exit(1)
	}
}

func addActivity(activity *registry.Activity) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		reg = &registry.ActivityRegistry{Version: "1.0.0"}
	}

	for _, existing := range reg.Activities {
		if existing.ID == activity.ID {
			return fmt.Errorf("activity with ID %s already exists", activity.ID)
		}
	}

	reg.Activities = append(reg.Activities, *activity)
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return reg.Save(registryPath)
}

func updateActivity(id, field, value string) error {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	var target *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == id {
			target = &reg.Activities[i]
			break
		}
	}
	if target == nil {
		return fmt.Errorf("activity with ID %s not found", id)
	}

	switch field {
	case "status":
		target.ImplementationStatus = value
	case "version":
		target.Version = value
	case "displayName":
		target.DisplayName = value
	case "description":
		target.Description = value
	case "category":
		target.Category = value
	case "timeout":
		target.Timeout = value
	case "retries":
		retries, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid retries value: %w", err)
		}
		target.Retries = retries
	default:
		return fmt.Errorf("unknown field: %s", field)
	}

	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return reg.Save(registryPath)
}

func syncSchemas() (int, error) {
	reg, err := registry.LoadRegistry(registryPath)
	if err != nil {
		return 0, fmt.Errorf("failed to load registry: %w", err)
	}

	n := 0
	for i := range reg.Activities {
		if schema, ok := workerSchemas[reg.Activities[i].TaskType]; ok {
			reg.Activities[i].InputSchema = schema()
			n++
		}
	}
	if err := reg.Validate(); err != nil {
		return 0, err
	}
	reg.LastUpdated = time.Now().Format(time.RFC3339)
	return n, reg.Save(registryPath)
}

func help() {
	fmt.Println(`
Usage: registry-updater <command> [flags]

Commands:
  add      Add a new activity to the registry
  update   Update an existing activity's field
  schemas  Copy each worker's input schema into the registry
  validate Validate the registry file
  help     Show this help message

Examples:
  registry-updater add -id calculate-gpa -displayName "Calculate GPA" -description "Computes the credit-weighted GPA" -category transcript -taskType calculate-gpa
  registry-updater update -id calculate-gpa -field status -value completed
  registry-updater schemas -path configs/activity-registry.json
  registry-updater validate -path configs/activity-registry.json`)
}
