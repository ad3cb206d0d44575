package content

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation marks client-caused input errors; handlers map it to 400.
var ErrValidation = errors.New("validation failed")

// Evidence statuses a testimonial can carry.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// Evidence is the kind of proof attached to a testimonial. The required
// field set depends on which kind was chosen, so the three cases are modeled
// explicitly instead of as an optional-field bag.
type Evidence string

const (
	EvidenceImage Evidence = "image"
	EvidenceVideo Evidence = "video"
	EvidenceNone  Evidence = "no-media"
)

// ResolveEvidence classifies a testimonial submission: an attached file is
// image or video evidence by its content type; no file means a text-only
// testimonial.
func ResolveEvidence(hasFile bool, contentType string) Evidence {
	if !hasFile {
		return EvidenceNone
	}
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "video/") {
		return EvidenceVideo
	}
	return EvidenceImage
}

// TestimonialInput is the field set submitted for a testimonial, before the
// evidence-dependent rules are applied.
type TestimonialInput struct {
	Name        string
	Description string
	Spread      string
	Rating      int
	Status      string
}

// Validate enforces the per-evidence required fields:
//
//   - image: description and a 1-5 rating back the picture;
//   - video: the clip speaks for itself, only the name is required;
//   - no-media: description, rating, and the spread that was read.
func (in TestimonialInput) Validate(evidence Evidence) error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrValidation)
	}

	switch evidence {
	case EvidenceImage:
		if strings.TrimSpace(in.Description) == "" {
			return fmt.Errorf("%w: description is required for image testimonials", ErrValidation)
		}
		if in.Rating < 1 || in.Rating > 5 {
			return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
		}
	case EvidenceVideo:
		// Nothing beyond the name and the file itself.
	case EvidenceNone:
		if strings.TrimSpace(in.Description) == "" {
			return fmt.Errorf("%w: description is required for text testimonials", ErrValidation)
		}
		if in.Rating < 1 || in.Rating > 5 {
			return fmt.Errorf("%w: rating must be between 1 and 5", ErrValidation)
		}
		if strings.TrimSpace(in.Spread) == "" {
			return fmt.Errorf("%w: spread is required for text testimonials", ErrValidation)
		}
	default:
		return fmt.Errorf("%w: unknown media type %q", ErrValidation, evidence)
	}
	return nil
}

// Fields renders the input as a document body for the given evidence kind,
// applying the kind-specific defaults (video testimonials store an empty
// description and a zero rating).
func (in TestimonialInput) Fields(evidence Evidence, mediaURL string) map[string]any {
	status := in.Status
	if status == "" {
		status = StatusActive
	}
	fields := map[string]any{
		"name":      strings.TrimSpace(in.Name),
		"mediaType": string(evidence),
		"status":    status,
	}
	switch evidence {
	case EvidenceVideo:
		fields["media"] = mediaURL
		fields["description"] = ""
		fields["rating"] = 0
		fields["spread"] = ""
	case EvidenceImage:
		fields["media"] = mediaURL
		fields["description"] = strings.TrimSpace(in.Description)
		fields["rating"] = in.Rating
		fields["spread"] = ""
	case EvidenceNone:
		fields["media"] = ""
		fields["description"] = strings.TrimSpace(in.Description)
		fields["rating"] = in.Rating
		fields["spread"] = strings.TrimSpace(in.Spread)
	}
	return fields
}
