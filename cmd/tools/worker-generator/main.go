// cmd/tools/worker-generator/main.go
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"go/format"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"career-guidance-workers/pkg/registry"
)

// WorkerData holds data for templates
type WorkerData struct {
	Name        string
	PackageName string
	TaskType    string
	Category    string
	Description string
	Timeout     string
	ErrorCodes  []string
	InputSchema map[string]interface{}
	Output      map[string]interface{}
	SchemaJSON  string
}

// parseSchema extracts properties from a JSON schema object
func parseSchema(schema map[string]interface{}) map[string]interface{} {
	if props, ok := schema["properties"].(map[string]interface{}); ok {
		return props
	}
	return map[string]interface{}{}
}

// goTypeFromJSONType maps JSON schema types to Go types
func goTypeFromJSONType(jsonType interface{}) string {
	switch jsonType {
	case "string":
		return "string"
	case "integer":
		return "int"
	case "number":
		return "float64"
	case "boolean":
		return "bool"
	case "object":
		return "map[string]interface{}"
	case "array":
		return "[]interface{}"
	}
	return "interface{}"
}

// generateStructFields renders sorted struct fields so regenerated files
// diff cleanly.
func generateStructFields(properties map[string]interface{}) string {
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	var fields []string
	for _, prop := range names {
		details, ok := properties[prop].(map[string]interface{})
		if !ok {
			continue
		}
		line := fmt.Sprintf("\t%s %s `json:\"%s\"`", upperFirst(prop), goTypeFromJSONType(details["type"]), prop)
		if d, ok := details["description"].(string); ok && d != "" {
			line += " // " + d
		}
		fields = append(fields, line)
	}
	return strings.Join(fields, "\n")
}

func upperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

const handlerTemplate = `package {{ .PackageName }}

import (
	"context"
	"encoding/json"

	apperrors "career-guidance-workers/internal/common/errors"
	"career-guidance-workers/internal/common/logger"
	"career-guidance-workers/internal/common/metrics"
	"career-guidance-workers/internal/common/validation"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "{{ .TaskType }}"
)

type Handler struct {
	config *Config
	logger logger.Logger
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"taskType": TaskType}),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	result, err := validation.ValidateVariables(job.Variables, GetInputSchema())
	if err != nil || !result.Valid {
		h.failJob(client, job, apperrors.NewInputSchemaInvalidError(schemaDetails(result, err)))
		return
	}

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, apperrors.NewInputSchemaInvalidError(err.Error()))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.failJob(client, job, err)
		return
	}
	h.completeJob(client, job, output)
}

// Execute runs the worker logic without a job client.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}

func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	return &Output{}, nil
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.failJob(client, job, err)
		return
	}
	if _, err := cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"jobKey": job.Key, "error": err.Error()})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, err error) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(apperrors.Normalize(err).Code)).Inc()
	apperrors.NewErrorHandler(h.logger).HandleJobError(context.Background(), client, job, err)
}

func schemaDetails(result *validation.ValidationResult, err error) string {
	if err != nil {
		return err.Error()
	}
	return result.Error()
}
`

const configTemplate = `package {{ .PackageName }}

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: {{ goDuration .Timeout }},
	}
}
`

const modelsTemplate = `package {{ .PackageName }}

type Input struct {
{{ generateStructFields (parseSchema .InputSchema) }}
}

type Output struct {
{{ generateStructFields (parseSchema .Output) }}
}
`

const validationTemplate = `package {{ .PackageName }}

import "career-guidance-workers/internal/common/validation"

const inputSchema = ` + "`{{ .SchemaJSON }}`" + `

func GetInputSchema() map[string]interface{} {
	schema, err := validation.GetSchemaFromJSON(inputSchema)
	if err != nil {
		panic(err)
	}
	return schema
}
`

const testTemplate = `package {{ .PackageName }}

import (
	"testing"

	"career-guidance-workers/internal/common/validation"

	"github.com/stretchr/testify/require"
)

func TestInputSchema(t *testing.T) {
	require.NoError(t, validation.CompileSchema(GetInputSchema()))
}
`

// goDuration turns a registry timeout such as "10s" into a Go expression.
func goDuration(timeout string) string {
	if strings.HasSuffix(timeout, "s") {
		if n := strings.TrimSuffix(timeout, "s"); n != "" && strings.Trim(n, "0123456789") == "" {
			return n + " * time.Second"
		}
	}
	return "10 * time.Second"
}

var funcMap = template.FuncMap{
	"parseSchema":          parseSchema,
	"generateStructFields": generateStructFields,
	"goDuration":           goDuration,
}

var templates = map[string]string{
	"handler.go":      handlerTemplate,
	"config.go":       configTemplate,
	"models.go":       modelsTemplate,
	"validation.go":   validationTemplate,
	"handler_test.go": testTemplate,
}

// render executes every template and gofmts the Go output.
func render(data WorkerData) (map[string][]byte, error) {
	out := make(map[string][]byte, len(templates))
	for filename, tmplStr := range templates {
		tmpl, err := template.New(filename).Funcs(funcMap).Parse(tmplStr)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", filename, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("execute template %s: %w", filename, err)
		}
		src, err := format.Source(buf.Bytes())
		if err != nil {
			return nil, fmt.Errorf("format %s: %w", filename, err)
		}
		out[filename] = src
	}
	return out, nil
}

func newWorkerData(a *registry.Activity) (WorkerData, error) {
	schema := a.InputSchema
	if len(schema) == 0 {
		schema = map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
	}
	raw, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return WorkerData{}, err
	}
	return WorkerData{
		Name:        a.DisplayName,
		PackageName: strings.ReplaceAll(a.ID, "-", ""),
		TaskType:    a.TaskType,
		Category:    a.Category,
		Description: a.Description,
		Timeout:     a.Timeout,
		ErrorCodes:  a.ErrorCodes,
		InputSchema: schema,
		Output:      a.OutputSchema,
		SchemaJSON:  string(raw),
	}, nil
}

func main() {
	activity := flag.String("activity", "", "Activity ID from registry (e.g., calculate-gpa)")
	outputDir := flag.String("output", "./internal/workers/", "Output directory for the generated worker")
	registryPath := flag.String("registry", "configs/activity-registry.json", "Path to the activity registry JSON file")
	force := flag.Bool("force", false, "Overwrite an existing worker directory")
	flag.Parse()

	if *activity == "" {
		fmt.Println("Usage: worker-generator --activity <id> [--output <dir>] [--registry <path>] [--force]")
		os.Exit(1)
	}

	reg, err := registry.LoadRegistry(*registryPath)
	if err != nil {
		fmt.Printf("Error loading registry from %s: %v\n", *registryPath, err)
		os.Exit(1)
	}

	var found *registry.Activity
	for i := range reg.Activities {
		if reg.Activities[i].ID == *activity {
			found = &reg.Activities[i]
			break
		}
	}
	if found == nil {
		fmt.Printf("Activity '%s' not found in registry %s\n", *activity, *registryPath)
		os.Exit(1)
	}

	data, err := newWorkerData(found)
	if err != nil {
		fmt.Printf("Error preparing activity %s: %v\n", found.ID, err)
		os.Exit(1)
	}

	workerDir := filepath.Join(*outputDir, strings.ToLower(data.Category), found.ID)
	if _, err := os.Stat(workerDir); err == nil && !*force {
		fmt.Printf("%s already exists, pass --force to overwrite\n", workerDir)
		os.Exit(1)
	}
	if err := os.MkdirAll(workerDir, 0o755); err != nil {
		fmt.Printf("Error creating directory: %v\n", err)
		os.Exit(1)
	}

	files, err := render(data)
	if err != nil {
		fmt.Printf("Error rendering worker: %v\n", err)
		os.Exit(1)
	}
	for filename, src := range files {
		path := filepath.Join(workerDir, filename)
		if err := os.WriteFile(path, src, 0o644); err != nil {
			fmt.Printf("Error writing %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("generated %s\n", path)
	}

	fmt.Printf("\nRegister %s in cmd/worker-manager/main.go and add it under workers: in configs/config.yaml.\n", data.TaskType)
}
