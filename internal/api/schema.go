package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/Makepad-fr/tasktrackr/internal/service"
)

const maxBodySize = 64 << 10

var (
	createTaskSchema = jsonschema.MustCompileString("create_task.json", `{
		"type": "object",
		"properties": {
			"title": {"type": "string"}
		},
		"required": ["title"]
	}`)

	updateTaskSchema = jsonschema.MustCompileString("update_task.json", `{
		"type": "object",
		"properties": {
			"completed": {"type": "boolean"}
		},
		"required": ["completed"]
	}`)
)

// bindBody checks the request body against schema and decodes it into dst.
// Every failure is an invalid-argument error.
func bindBody(c *gin.Context, schema *jsonschema.Schema, dst any) error {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: read body: %v", service.ErrInvalidArgument, err)
	}

	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("%w: malformed JSON body", service.ErrInvalidArgument)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %s", service.ErrInvalidArgument, describe(err))
	}

	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", service.ErrInvalidArgument, err)
	}
	return nil
}

// describe flattens a schema validation error into one line.
func describe(err error) string {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return err.Error()
	}
	var msgs []string
	collect(ve, &msgs)
	if len(msgs) == 0 {
		return ve.Message
	}
	return strings.Join(msgs, "; ")
}

func collect(ve *jsonschema.ValidationError, msgs *[]string) {
	if len(ve.Causes) == 0 {
		field := strings.TrimPrefix(ve.InstanceLocation, "/")
		if field == "" {
			*msgs = append(*msgs, ve.Message)
			return
		}
		*msgs = append(*msgs, field+": "+ve.Message)
		return
	}
	for _, cause := range ve.Causes {
		collect(cause, msgs)
	}
}
