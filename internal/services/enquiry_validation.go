package services

import (
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	"github.com/nithinv16/DukaaOnWebsite/internal/models"
)

const maxEnquiryFieldLength = 1000

// StakeholderTypes accepted on contact enquiries
var StakeholderTypes = []string{"investor", "retailer", "wholesaler", "manufacturer", "fmcg", "other"}

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneStrip   = regexp.MustCompile(`[\s\-()]`)

	indianPhonePatterns = []*regexp.Regexp{
		regexp.MustCompile(`^[6-9]\d{9}$`),
		regexp.MustCompile(`^\+91[6-9]\d{9}$`),
		regexp.MustCompile(`^91[6-9]\d{9}$`),
	}
	internationalPhone = regexp.MustCompile(`^\+?[1-9]\d{9,14}$`)
)

// EnquiryRequest is the enquiry form body
type EnquiryRequest struct {
	VisitorName     string `json:"visitorName" validate:"trimmed_min=2"`
	Email           string `json:"email" validate:"notblank,simple_email"`
	Phone           string `json:"phone" validate:"notblank,phone"`
	Location        string `json:"location" validate:"trimmed_min=2"`
	Message         string `json:"message" validate:"trimmed_min=10,max_runes=1000"`
	SellerID        string `json:"sellerId,omitempty"`
	EnquiryType     string `json:"enquiryType,omitempty" validate:"omitempty,oneof=seller general contact"`
	StakeholderType string `json:"stakeholderType,omitempty"`
}

// ValidationResult lists every failed rule in field order
type ValidationResult struct {
	IsValid bool         `json:"isValid"`
	Errors  []FieldError `json:"errors"`
}

// 필드.태그 -> 사용자 메시지
var enquiryMessages = map[string]string{
	"visitorName.trimmed_min":     "Name must be at least 2 characters long",
	"email.notblank":              "Email is required",
	"email.simple_email":          "Please enter a valid email address",
	"phone.notblank":              "Phone number is required",
	"phone.phone":                 "Please enter a valid phone number",
	"location.trimmed_min":        "Location must be at least 2 characters long",
	"message.trimmed_min":         "Message must be at least 10 characters long",
	"message.max_runes":           "Message must not exceed 1000 characters",
	"enquiryType.oneof":           "Invalid enquiry type",
	"stakeholderType.required":    "Please select your stakeholder type",
	"stakeholderType.stakeholder": "Please select a valid stakeholder type",
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func enquiryValidator() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New()
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		})
		_ = v.RegisterValidation("trimmed_min", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= n
		})
		_ = v.RegisterValidation("max_runes", func(fl validator.FieldLevel) bool {
			n, err := strconv.Atoi(fl.Param())
			if err != nil {
				return false
			}
			return utf8.RuneCountInString(fl.Field().String()) <= n
		})
		_ = v.RegisterValidation("simple_email", func(fl validator.FieldLevel) bool {
			return IsValidEmail(fl.Field().String())
		})
		_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
			phone := fl.Field().String()
			return IsValidIndianPhone(phone) || IsValidPhone(phone)
		})

		// stakeholderType는 contact 문의에서만 검사
		v.RegisterStructValidation(func(sl validator.StructLevel) {
			req := sl.Current().Interface().(EnquiryRequest)
			if req.EnquiryType != models.EnquiryTypeContact {
				return
			}
			switch {
			case req.StakeholderType == "":
				sl.ReportError(req.StakeholderType, "stakeholderType", "StakeholderType", "required", "")
			case !contains(StakeholderTypes, req.StakeholderType):
				sl.ReportError(req.StakeholderType, "stakeholderType", "StakeholderType", "stakeholder", "")
			}
		}, EnquiryRequest{})

		validate = v
	})
	return validate
}

// ValidateEnquiry checks an enquiry form and collects every failure
func ValidateEnquiry(req EnquiryRequest) ValidationResult {
	result := ValidationResult{IsValid: true, Errors: []FieldError{}}

	err := enquiryValidator().Struct(req)
	if err == nil {
		return result
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		result.IsValid = false
		result.Errors = append(result.Errors, FieldError{Field: "", Message: err.Error()})
		return result
	}

	for _, fe := range verrs {
		msg, ok := enquiryMessages[fe.Field()+"."+fe.Tag()]
		if !ok {
			msg = "Invalid value"
		}
		result.Errors = append(result.Errors, FieldError{Field: fe.Field(), Message: msg})
	}
	result.IsValid = len(result.Errors) == 0
	return result
}

// ValidateContact validates a contact-page form; the type is always contact
func ValidateContact(req EnquiryRequest) ValidationResult {
	req.EnquiryType = models.EnquiryTypeContact
	return ValidateEnquiry(req)
}

// IsValidEmail matches a simple local@domain.tld shape
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(strings.TrimSpace(email))
}

// IsValidIndianPhone accepts 10 digits starting 6-9, optionally prefixed with +91 or 91
func IsValidIndianPhone(phone string) bool {
	cleaned := phoneStrip.ReplaceAllString(phone, "")
	for _, p := range indianPhonePatterns {
		if p.MatchString(cleaned) {
			return true
		}
	}
	return false
}

// IsValidPhone accepts 10-15 digits with an optional leading +
func IsValidPhone(phone string) bool {
	return internationalPhone.MatchString(phoneStrip.ReplaceAllString(phone, ""))
}

// SanitizeInput trims, drops angle brackets and caps the length.
// Values still need escaping wherever they are rendered.
func SanitizeInput(input string) string {
	s := strings.TrimSpace(input)
	s = strings.NewReplacer("<", "", ">", "").Replace(s)
	if utf8.RuneCountInString(s) > maxEnquiryFieldLength {
		s = string([]rune(s)[:maxEnquiryFieldLength])
	}
	return s
}

// FormatPhoneNumber renders Indian numbers as "+91 XXXXX XXXXX" or "XXXXX XXXXX"
func FormatPhoneNumber(phone string) string {
	cleaned := phoneStrip.ReplaceAllString(phone, "")

	switch {
	case strings.HasPrefix(cleaned, "+91"):
		if n := cleaned[3:]; len(n) == 10 {
			return "+91 " + n[:5] + " " + n[5:]
		}
	case strings.HasPrefix(cleaned, "91") && len(cleaned) == 12:
		n := cleaned[2:]
		return "+91 " + n[:5] + " " + n[5:]
	case len(cleaned) == 10:
		return cleaned[:5] + " " + cleaned[5:]
	}
	return phone
}
