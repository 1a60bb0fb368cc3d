package models

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	// NameMaxLength is the column bound for Product.Name.
	NameMaxLength = 63
	// DescriptionMaxLength is the column bound for Product.Description.
	DescriptionMaxLength = 256
)

var validate = validator.New()

// Product represents a product in the catalog.
type Product struct {
	ID          int    `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string `json:"name" gorm:"type:varchar(63);index" validate:"required,max=63"`
	Description string `json:"description" gorm:"type:varchar(256)" validate:"required,max=256"`
	Price       Price  `json:"price"`
}

// TableName pins the table name regardless of naming strategy.
func (Product) TableName() string {
	return "products"
}

func (p *Product) String() string {
	return fmt.Sprintf("<Product %s id=[%d]>", p.Name, p.ID)
}

// Persisted reports whether the product has been assigned an id by the store.
func (p *Product) Persisted() bool {
	return p.ID != 0
}

// DataValidationError is returned when a payload or a store write is rejected.
type DataValidationError struct {
	Msg string
	Err error
}

func (e *DataValidationError) Error() string {
	if e.Err != nil && e.Msg == "" {
		return e.Err.Error()
	}
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *DataValidationError) Unwrap() error {
	return e.Err
}

// NewDataValidationError wraps a store or parse error.
func NewDataValidationError(err error) *DataValidationError {
	return &DataValidationError{Err: err}
}

// IsDataValidationError reports whether err is, or wraps, a DataValidationError.
func IsDataValidationError(err error) bool {
	var dve *DataValidationError
	return errors.As(err, &dve)
}

// Serialize renders the product as a JSON-ready map. The id is nil until the
// product has been persisted and the price is always a decimal string.
func (p *Product) Serialize() map[string]interface{} {
	var id interface{}
	if p.Persisted() {
		id = p.ID
	}
	return map[string]interface{}{
		"id":          id,
		"name":        p.Name,
		"description": p.Description,
		"price":       p.Price.String(),
	}
}

// Deserialize copies name, description and price out of a decoded JSON body.
// Nothing is assigned unless every field parses, and the receiver is returned
// so calls can be chained.
func (p *Product) Deserialize(data interface{}) (*Product, error) {
	fields, ok := data.(map[string]interface{})
	if !ok {
		return nil, &DataValidationError{
			Msg: fmt.Sprintf("Invalid Product: body of request contained bad or no data: expected an object, got %s", jsonKind(data)),
		}
	}

	name, err := stringField(fields, "name")
	if err != nil {
		return nil, err
	}
	description, err := stringField(fields, "description")
	if err != nil {
		return nil, err
	}
	price, err := priceField(fields, "price")
	if err != nil {
		return nil, err
	}

	p.Name = name
	p.Description = description
	p.Price = price
	return p, nil
}

// Validate checks the product against the column bounds of the products table.
func (p *Product) Validate() error {
	var msgs []string
	if err := validate.Struct(p); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return NewDataValidationError(err)
		}
		for _, fe := range verrs {
			msgs = append(msgs, describe(fe))
		}
	}
	if err := checkColumn(p.Price.Decimal); err != nil {
		msgs = append(msgs, "price has "+err.Error())
	}
	if len(msgs) == 0 {
		return nil
	}
	return &DataValidationError{Msg: strings.Join(msgs, "; ")}
}

func describe(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		value, _ := fe.Value().(string)
		return fmt.Sprintf("value too long for %s: length %d exceeds %s characters",
			field, len([]rune(value)), fe.Param())
	default:
		return fmt.Sprintf("%s failed on %s", field, fe.Tag())
	}
}

func stringField(fields map[string]interface{}, key string) (string, error) {
	raw, ok := fields[key]
	if !ok {
		return "", &DataValidationError{Msg: "Invalid Product: missing " + key}
	}
	s, ok := raw.(string)
	if !ok {
		return "", &DataValidationError{
			Msg: fmt.Sprintf("Invalid Product: %s must be a string, got %s", key, jsonKind(raw)),
		}
	}
	return s, nil
}

func priceField(fields map[string]interface{}, key string) (Price, error) {
	raw, ok := fields[key]
	if !ok {
		return Price{}, &DataValidationError{Msg: "Invalid Product: missing " + key}
	}

	var literal string
	switch v := raw.(type) {
	case string:
		literal = v
	case json.Number:
		literal = v.String()
	default:
		return Price{}, &DataValidationError{
			Msg: fmt.Sprintf("Invalid Product: %s must be a decimal string, got %s", key, jsonKind(raw)),
		}
	}

	price, err := ParsePrice(strings.TrimSpace(literal))
	if err != nil {
		return Price{}, &DataValidationError{Msg: "Invalid Product", Err: err}
	}
	return price, nil
}

func jsonKind(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	case []interface{}:
		return "array"
	case map[string]interface{}:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
