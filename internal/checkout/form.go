package checkout

import (
	"fmt"
	"strings"

	"github.com/fekuna/omnipos-storefront-service/internal/model"
)

const (
	FieldName    = "name"
	FieldPhone   = "phone"
	FieldAddress = "address"
	FieldCity    = "city"
)

// Form mirrors the checkout inputs. Values are kept verbatim; trimming happens at validation.
type Form struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
}

var fieldLabels = map[string]string{
	FieldName:    "Nom complet",
	FieldPhone:   "Téléphone",
	FieldAddress: "Adresse",
	FieldCity:    "Ville",
}

func (f *Form) set(field, value string) error {
	switch field {
	case FieldName:
		f.Name = value
	case FieldPhone:
		f.Phone = value
	case FieldAddress:
		f.Address = value
	case FieldCity:
		f.City = value
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

// validate checks the required customer fields in display order.
func (f Form) validate() *ValidationError {
	for _, field := range []struct {
		key, value string
	}{
		{FieldName, f.Name},
		{FieldPhone, f.Phone},
		{FieldAddress, f.Address},
		{FieldCity, f.City},
	} {
		if strings.TrimSpace(field.value) == "" {
			return &ValidationError{
				Field:   field.key,
				Message: fmt.Sprintf("Le champ « %s » est obligatoire.", fieldLabels[field.key]),
			}
		}
	}
	return nil
}

func (f Form) customer() model.Customer {
	return model.Customer{
		Name:    strings.TrimSpace(f.Name),
		Phone:   strings.TrimSpace(f.Phone),
		Address: strings.TrimSpace(f.Address),
		City:    strings.TrimSpace(f.City),
	}
}
