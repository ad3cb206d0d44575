package content

import (
	"log/slog"
	"time"
)

// Collection names in the document store.
const (
	BlogCollection        = "blogs"
	ProductCollection     = "products"
	TestimonialCollection = "testimonials"
	LeadCollection        = "leads"
)

// Target render sizes for cover-resized images.
const (
	BlogImageWidth  = 800
	BlogImageHeight = 600

	ProductImageWidth  = 600
	ProductImageHeight = 400

	TestimonialImageWidth  = 600
	TestimonialImageHeight = 600
)

type Blog struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Summary   string    `json:"summary"`
	Image     string    `json:"image"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

func (b Blog) RecordID() string { return b.ID }

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	CreatedOn   time.Time `json:"createdOn"`
	UpdatedOn   time.Time `json:"updatedOn"`
}

func (p Product) RecordID() string { return p.ID }

type Testimonial struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Media       string    `json:"media"`
	MediaType   string    `json:"mediaType"`
	Spread      string    `json:"spread"`
	Rating      int       `json:"rating"`
	Status      string    `json:"status"`
	CreatedOn   time.Time `json:"createdOn"`
	UpdatedOn   time.Time `json:"updatedOn"`
}

func (t Testimonial) RecordID() string { return t.ID }

// Lead is a contact-form submission.
type Lead struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Message   string    `json:"message"`
	CreatedOn time.Time `json:"createdOn"`
	UpdatedOn time.Time `json:"updatedOn"`
}

func (l Lead) RecordID() string { return l.ID }

// Typed service aliases so constructors and fx wiring stay readable.
type (
	BlogService        = Service[Blog]
	ProductService     = Service[Product]
	TestimonialService = Service[Testimonial]
	LeadService        = Service[Lead]
)

func NewBlogService(log *slog.Logger, store Store) *BlogService {
	return newService[Blog](log, store, BlogCollection)
}

func NewProductService(log *slog.Logger, store Store) *ProductService {
	return newService[Product](log, store, ProductCollection)
}

func NewTestimonialService(log *slog.Logger, store Store) *TestimonialService {
	return newService[Testimonial](log, store, TestimonialCollection)
}

func NewLeadService(log *slog.Logger, store Store) *LeadService {
	return newService[Lead](log, store, LeadCollection)
}
