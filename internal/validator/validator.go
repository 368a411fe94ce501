package validator

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Issue - одно нарушение схемы: путь до поля (json-имена через точку) и сообщение.
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationError - кастомный тип ошибки с картой "путь" -> "сообщение".
type ValidationError struct {
	Errors map[string]string
}

// Error реализует стандартный интерфейс error.
func (e *ValidationError) Error() string {
	issues := e.Issues()
	errMsgs := make([]string, 0, len(issues))
	for _, is := range issues {
		errMsgs = append(errMsgs, fmt.Sprintf("field '%s': %s", is.Path, is.Message))
	}
	return "Validation failed: " + strings.Join(errMsgs, "; ")
}

// Add добавляет нарушение. Первое сообщение для пути сохраняется.
func (e *ValidationError) Add(path, message string) {
	if e.Errors == nil {
		e.Errors = make(map[string]string)
	}
	if _, exists := e.Errors[path]; !exists {
		e.Errors[path] = message
	}
}

// Merge переносит нарушения другой ошибки
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	for path, msg := range other.Errors {
		e.Add(path, msg)
	}
}

// HasErrors - есть ли хотя бы одно нарушение
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Errors) > 0
}

// Issues возвращает нарушения, отсортированные по пути (стабильный ответ API).
func (e *ValidationError) Issues() []Issue {
	issues := make([]Issue, 0, len(e.Errors))
	for path, msg := range e.Errors {
		issues = append(issues, Issue{Path: path, Message: msg})
	}
	sort.Slice(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

// Validator - обертка над go-playground/validator.
type Validator struct {
	validate *validator.Validate
}

// New создает новый экземпляр Validator.
func New() *Validator {
	v := validator.New()

	// Имена полей в ошибках берем из json-тегов, а не из имен полей Go.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	registerCustomRules(v)

	return &Validator{
		validate: v,
	}
}

// Validate выполняет валидацию структуры.
// Если есть ошибки, возвращает *ValidationError.
func (v *Validator) Validate(i interface{}) error {
	return v.ValidateWithPrefix(i, "")
}

// ValidateWithPrefix - то же, что Validate, но пути получают префикс
// (например "details" для вложенного payload, который разбирается отдельно).
func (v *Validator) ValidateWithPrefix(i interface{}, prefix string) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Ошибка не валидации (например, передан не struct)
		return err
	}

	out := &ValidationError{}
	for _, fe := range validationErrors {
		out.Add(fieldPath(prefix, fe.Namespace()), v.getErrorMessage(fe))
	}
	return out
}

// fieldPath отрезает имя корневой структуры из namespace: "Req.profile.firstName" -> "profile.firstName"
func fieldPath(prefix, namespace string) string {
	path := namespace
	if idx := strings.Index(namespace, "."); idx >= 0 {
		path = namespace[idx+1:]
	}
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

// getErrorMessage - сообщение по тегу правила
func (v *Validator) getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Must be a valid email address"
	case "min":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must be at least %s items/characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s", fe.Param())
	case "max":
		if fe.Kind() == reflect.String || fe.Kind() == reflect.Slice || fe.Kind() == reflect.Map {
			return fmt.Sprintf("Must be at most %s items/characters long", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s items/characters long", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "url":
		return "Must be a valid URL"
	case "iso4217":
		return "Must be an ISO 4217 currency code"
	case "iso3166_1_alpha2":
		return "Must be an ISO 3166-1 alpha-2 country code"
	case "gtefield":
		return fmt.Sprintf("Must be greater than or equal to %s", fe.Param())
	case "opportunity-type":
		return "Must be one of: job, investment, partnership, collaboration"
	case "opportunity-status":
		return "Must be one of: open, closed"
	case "approval-status":
		return "Must be one of: pending, approved, rejected"
	case "application-status":
		return "Must be one of: applied, under_review, interview, offer, rejected, withdrawn"
	case "role":
		return "Must be one of: professional, jobSeeker, employer, businessOwner, investor, admin"
	default:
		return fmt.Sprintf("Invalid value (failed on '%s' tag)", fe.Tag())
	}
}
