package create_reservation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/m04kA/SMC-VenueBookingService/internal/domain"
	"github.com/m04kA/SMC-VenueBookingService/pkg/types"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validatedRequest разобранный и проверенный запрос
type validatedRequest struct {
	date     time.Time
	time     types.TimeString
	duration domain.SlotDuration
}

// normalizeRequest обрезает пробелы в строковых полях
func normalizeRequest(req *Request) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Date = strings.TrimSpace(req.Date)
	req.Time = strings.TrimSpace(req.Time)
	if req.SpecialRequests != nil {
		trimmed := strings.TrimSpace(*req.SpecialRequests)
		if trimmed == "" {
			req.SpecialRequests = nil
		} else {
			req.SpecialRequests = &trimmed
		}
	}
}

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) (*validatedRequest, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	normalizeRequest(req)

	if err := validate.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, describeValidationError(err))
	}

	date, err := domain.ParseDate(req.Date)
	if err != nil {
		return nil, err
	}

	start, err := types.NewTimeStringFromString(req.Time)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid time %q: %v", ErrInvalidInput, req.Time, err)
	}

	duration, err := domain.ParseSlotDuration(req.DurationMinutes)
	if err != nil {
		return nil, err
	}

	return &validatedRequest{date: date, time: start, duration: duration}, nil
}

// validateLeadTime проверяет, что начало слота строго позже now + leadTime
func validateLeadTime(date time.Time, start types.TimeString, now time.Time, loc *time.Location, leadTime time.Duration) error {
	startsAt, err := start.On(date, loc)
	if err != nil {
		return fmt.Errorf("%w: failed to resolve slot start: %v", ErrInternal, err)
	}

	if !startsAt.After(now.Add(leadTime)) {
		return fmt.Errorf("%w: slot starts at %s, bookings close %d minutes before start",
			ErrLeadTimeTooShort, startsAt.Format(time.RFC3339), int(leadTime.Minutes()))
	}
	return nil
}

// describeValidationError собирает список полей, не прошедших проверку
func describeValidationError(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err.Error()
	}

	parts := make([]string, 0, len(validationErrs))
	for _, fe := range validationErrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s failed %s=%s", fe.Field(), fe.Tag(), fe.Param()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s failed %s", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, ", ")
}
