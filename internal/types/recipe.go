package types

import (
	"encoding/json"
	"errors"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/recipez/backend/internal/models"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	// Report fields by their json name so error keys match the wire format
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
}

// ValidationErrors maps a field name to its error messages. It never reaches
// the database: a non-empty set means the write was rejected up front.
type ValidationErrors map[string][]string

func (e ValidationErrors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var b strings.Builder
	b.WriteString("validation failed")
	for _, f := range fields {
		b.WriteString("; " + f + ": " + strings.Join(e[f], ", "))
	}
	return b.String()
}

// FlexInt accepts a JSON number or a numeric string, the way HTML form
// values arrive. A present but non-numeric value is kept and reported by
// Validate instead of failing the whole JSON decode.
type FlexInt struct {
	Int   int
	Valid bool
}

func (n *FlexInt) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" {
		// empty form field coerces to zero
		n.Int, n.Valid = 0, true
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		n.Valid = false
		return nil
	}
	n.Int, n.Valid = v, true
	return nil
}

func (n FlexInt) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.Int)
}

// IntPtr returns the coerced value, or nil when the field was absent.
func (n *FlexInt) IntPtr() *int {
	if n == nil {
		return nil
	}
	v := n.Int
	return &v
}

// IngredientInput is one editable ingredient row as submitted by the recipe
// form. The value is unwrapped to a plain string before storage.
type IngredientInput struct {
	Value string `json:"value"`
}

// RecipeInput is the untrusted request body for creating or updating a
// recipe.
type RecipeInput struct {
	Title        string            `json:"title" validate:"required"`
	Description  string            `json:"description"`
	Ingredients  []IngredientInput `json:"ingredients" validate:"min=1"`
	Instructions string            `json:"instructions" validate:"required"`
	PrepTime     *FlexInt          `json:"prep_time"`
	CookTime     *FlexInt          `json:"cook_time"`
	Servings     *FlexInt          `json:"servings"`
	Category     string            `json:"category" validate:"omitempty,oneof=Breakfast Lunch Dinner Dessert Snacks"`
	PhotoURL     string            `json:"photo_url"`
	IsFavorite   bool              `json:"is_favorite"`
}

// Validate trims the input in place and returns field-level errors, or nil
// when the input is storable. It is a pure check: no backend calls.
func (in *RecipeInput) Validate() ValidationErrors {
	errs := ValidationErrors{}

	in.Title = strings.TrimSpace(in.Title)
	in.Instructions = strings.TrimSpace(in.Instructions)
	in.Category = strings.TrimSpace(in.Category)
	for i := range in.Ingredients {
		in.Ingredients[i].Value = strings.TrimSpace(in.Ingredients[i].Value)
	}

	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			for _, fe := range verrs {
				switch fe.Field() {
				case "title":
					errs.Add("title", "Title is required")
				case "instructions":
					errs.Add("instructions", "Instructions are required")
				case "ingredients":
					errs.Add("ingredients", "At least one ingredient is required")
				case "category":
					errs.Add("category", "Category must be one of: "+strings.Join(models.Categories, ", "))
				default:
					errs.Add(fe.Field(), "Invalid value")
				}
			}
		}
	}

	for _, ing := range in.Ingredients {
		if ing.Value == "" {
			errs.Add("ingredients", "Ingredient cannot be empty")
			break
		}
	}

	checkMin(errs, "prep_time", in.PrepTime, 0)
	checkMin(errs, "cook_time", in.CookTime, 0)
	checkMin(errs, "servings", in.Servings, 1)

	if len(errs) == 0 {
		return nil
	}
	return errs
}

func checkMin(errs ValidationErrors, field string, n *FlexInt, min int) {
	if n == nil {
		return
	}
	if !n.Valid {
		errs.Add(field, "Must be a number")
		return
	}
	if n.Int < min {
		errs.Add(field, "Must be "+strconv.Itoa(min)+" or greater")
	}
}

// IngredientValues unwraps the form rows into the plain ordered list the
// storage layer keeps.
func (in *RecipeInput) IngredientValues() []string {
	values := make([]string, len(in.Ingredients))
	for i, ing := range in.Ingredients {
		values[i] = ing.Value
	}
	return values
}

// RecipeForm is the edit-surface shape of a stored recipe: ingredients are
// re-wrapped into individually editable rows.
type RecipeForm struct {
	ID           string            `json:"id"`
	Title        string            `json:"title"`
	Description  string            `json:"description"`
	Ingredients  []IngredientInput `json:"ingredients"`
	Instructions string            `json:"instructions"`
	PrepTime     *int              `json:"prep_time"`
	CookTime     *int              `json:"cook_time"`
	Servings     *int              `json:"servings"`
	Category     string            `json:"category"`
	PhotoURL     string            `json:"photo_url"`
	IsFavorite   bool              `json:"is_favorite"`
}

// FormFromRecipe converts a stored recipe back into the form shape.
func FormFromRecipe(r *models.Recipe) *RecipeForm {
	wrapped := make([]IngredientInput, len(r.Ingredients))
	for i, v := range r.Ingredients {
		wrapped[i] = IngredientInput{Value: v}
	}
	return &RecipeForm{
		ID:           r.ID.String(),
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  wrapped,
		Instructions: r.Instructions,
		PrepTime:     r.PrepTime,
		CookTime:     r.CookTime,
		Servings:     r.Servings,
		Category:     r.Category,
		PhotoURL:     r.PhotoURL,
		IsFavorite:   r.IsFavorite,
	}
}
