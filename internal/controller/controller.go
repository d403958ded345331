package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/lshigami/quizbank/internal/dto"
	"github.com/lshigami/quizbank/internal/service"
	"github.com/rs/zerolog/log"
)

// UseJSONFieldNames makes validator errors report JSON names (question_text)
// instead of Go field names (QuestionText).
func UseJSONFieldNames() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ParseID reads an integer path parameter. A malformed value is a 422; ids
// outside 1..MaxInt64 can never match a bigint key, so they are answered with a
// 404 directly. When ok is false the response has already been written.
func ParseID(c *gin.Context, param string) (id uint, ok bool) {
	n, err := strconv.ParseInt(c.Param(param), 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		NotFound(c)
		return 0, false
	}
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Detail: []dto.ValidationIssue{{
			Loc:  []string{"path", param},
			Msg:  "Input should be a valid integer",
			Type: "int_parsing",
		}}})
		return 0, false
	}
	if n <= 0 {
		NotFound(c)
		return 0, false
	}
	return uint(n), true
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, dto.ErrorResponse{Detail: "Question not found"})
}

// RespondError maps service errors to HTTP responses. Anything that is not a
// known client error is logged and reported as a 500.
func RespondError(c *gin.Context, err error, op string) {
	if errors.Is(err, service.ErrQuestionNotFound) {
		log.Info().Err(err).Str("op", op).Msg("Question not found")
		NotFound(c)
		return
	}
	log.Error().Err(err).Str("op", op).Msg("Service error")
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Detail: "Internal server error"})
}

// ValidationError writes a 422 describing why the request body was rejected.
func ValidationError(c *gin.Context, err error) {
	log.Warn().Err(err).Str("path", c.FullPath()).Msg("Request body rejected")
	c.JSON(http.StatusUnprocessableEntity, dto.ValidationErrorResponse{Detail: validationIssues(err)})
}

func validationIssues(err error) []dto.ValidationIssue {
	var (
		fieldErrs validator.ValidationErrors
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)
	switch {
	case errors.As(err, &fieldErrs):
		issues := make([]dto.ValidationIssue, 0, len(fieldErrs))
		for _, fe := range fieldErrs {
			issues = append(issues, dto.ValidationIssue{
				Loc:  append([]string{"body"}, namespacePath(fe.Namespace())...),
				Msg:  fieldMessage(fe),
				Type: issueType(fe.Tag()),
			})
		}
		return issues
	case errors.As(err, &typeErr):
		loc := []string{"body"}
		if typeErr.Field != "" {
			loc = append(loc, strings.Split(typeErr.Field, ".")...)
		}
		return []dto.ValidationIssue{{
			Loc:  loc,
			Msg:  fmt.Sprintf("Input should be a valid %s", typeErr.Type.Kind()),
			Type: "type_error",
		}}
	case errors.As(err, &syntaxErr), errors.Is(err, io.ErrUnexpectedEOF):
		return []dto.ValidationIssue{{Loc: []string{"body"}, Msg: "JSON decode error", Type: "json_invalid"}}
	case errors.Is(err, io.EOF):
		return []dto.ValidationIssue{{Loc: []string{"body"}, Msg: "Field required", Type: "missing"}}
	default:
		return []dto.ValidationIssue{{Loc: []string{"body"}, Msg: err.Error(), Type: "value_error"}}
	}
}

// namespacePath turns "QuestionCreateDTO.choices[1].choice_text" into
// ["choices", "1", "choice_text"].
func namespacePath(ns string) []string {
	parts := strings.Split(ns, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	path := make([]string, 0, len(parts))
	for _, p := range parts {
		if i := strings.IndexByte(p, '['); i >= 0 && strings.HasSuffix(p, "]") {
			path = append(path, p[:i], p[i+1:len(p)-1])
			continue
		}
		path = append(path, p)
	}
	return path
}

func fieldMessage(fe validator.FieldError) string {
	if fe.Tag() == "required" {
		return "Field required"
	}
	return fmt.Sprintf("Failed on the '%s' rule", fe.Tag())
}

func issueType(tag string) string {
	if tag == "required" {
		return "missing"
	}
	return tag
}
