package practices

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/m04kA/MediTime-BookingService/internal/domain"
	"github.com/m04kA/MediTime-BookingService/internal/service/practices/models"
)

func validateListRequest(req *models.ListRequest) error {
	if req.Search != nil && utf8.RuneCountInString(*req.Search) > domain.MaxSearchQueryLength {
		return fmt.Errorf("%w: search query is too long", ErrInvalidInput)
	}
	if req.Specialty != nil && *req.Specialty != "" && !domain.IsKnownSpecialty(*req.Specialty) {
		return fmt.Errorf("%w: unknown specialty %q", ErrInvalidInput, *req.Specialty)
	}
	return nil
}

func validateUpdateRequest(req *models.UpdatePracticeRequest) error {
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
		}
		if utf8.RuneCountInString(name) > domain.MaxNameLength {
			return fmt.Errorf("%w: name is too long", ErrInvalidInput)
		}
		req.Name = &name
	}

	if req.Specialty != nil && !domain.IsKnownSpecialty(*req.Specialty) {
		return fmt.Errorf("%w: unknown specialty %q", ErrInvalidInput, *req.Specialty)
	}

	if req.Latitude != nil && (*req.Latitude < -90 || *req.Latitude > 90) {
		return fmt.Errorf("%w: latitude out of range", ErrInvalidInput)
	}
	if req.Longitude != nil && (*req.Longitude < -180 || *req.Longitude > 180) {
		return fmt.Errorf("%w: longitude out of range", ErrInvalidInput)
	}

	if req.OpeningHours != nil {
		if err := req.OpeningHours.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
	}
	return nil
}

func validateWaitTime(minutes int) error {
	if minutes < domain.MinWaitMinutes || minutes > domain.MaxWaitMinutes {
		return fmt.Errorf("%w: wait time must be between %d and %d minutes",
			ErrInvalidInput, domain.MinWaitMinutes, domain.MaxWaitMinutes)
	}
	return nil
}
