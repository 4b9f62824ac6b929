// Package content serves the site content collections: gallery, services,
// pricing, FAQs, blog and testimonials.
package content

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/PropertyLens/PropertyLens/internal/auth"
	"github.com/PropertyLens/PropertyLens/internal/db/controller/resource"
	"github.com/PropertyLens/PropertyLens/internal/db/models"
	"github.com/PropertyLens/PropertyLens/internal/media"
	"github.com/PropertyLens/PropertyLens/internal/web/handler"
)

// Collection names, used as path segments.
const (
	Gallery      = "gallery"
	Services     = "services"
	Pricing      = "pricing"
	FAQs         = "faqs"
	Blog         = "blog"
	Testimonials = "testimonials"

	slugParam = "slug"
)

// ErrDepsMissing is returned by Init without the shared dependencies.
var ErrDepsMissing = errors.New("content handler needs database and sessions")

// Service is the content handler service.
type Service struct {
	resolver *media.Resolver
	blog     *resource.Repository[models.BlogPost]
	pricing  *resource.Pricing
}

// Handler is the content handler.
var Handler = Service{}

// Init creates the repositories and mounts the routes of every collection.
func (s *Service) Init(app *fiber.App, deps *handler.Deps) error {
	if app == nil || !deps.Valid() {
		return ErrDepsMissing
	}

	s.resolver = deps.Resolver

	gallery, err := resource.NewGallery(deps.DB)
	if err != nil {
		return err
	}

	services, err := resource.NewServices(deps.DB)
	if err != nil {
		return err
	}

	faqs, err := resource.NewFAQs(deps.DB)
	if err != nil {
		return err
	}

	testimonials, err := resource.NewTestimonials(deps.DB)
	if err != nil {
		return err
	}

	if s.blog, err = resource.NewBlog(deps.DB); err != nil {
		return err
	}

	if s.pricing, err = resource.NewPricing(deps.DB); err != nil {
		return err
	}

	app.Get(handler.APIPath+"/"+Blog+"/:"+slugParam, s.blogBySlug)

	(&collection[models.GalleryItem]{repo: gallery, resolver: s.resolver}).register(app, deps, Gallery)
	(&collection[models.Service]{repo: services, resolver: s.resolver}).register(app, deps, Services)
	(&collection[models.FAQ]{repo: faqs, resolver: s.resolver}).register(app, deps, FAQs)
	(&collection[models.Testimonial]{repo: testimonials, resolver: s.resolver}).register(app, deps, Testimonials)
	(&collection[models.BlogPost]{repo: s.blog, resolver: s.resolver, beforeCreate: setAuthor}).register(app, deps, Blog)

	featurePath := handler.AdminPath + "/" + Pricing + "/features/:" + handler.IDParam
	app.Get(featurePath, deps.Require(auth.LevelEditor), s.getFeature)
	app.Delete(featurePath, deps.Require(auth.LevelAdmin), s.deleteFeature)
	app.Post(handler.AdminPath+"/"+Pricing+"/:"+handler.IDParam+"/features", deps.Require(auth.LevelEditor), s.addFeature)

	(&collection[models.PricingPackage]{repo: s.pricing.Repository, resolver: s.resolver}).register(app, deps, Pricing)

	return nil
}

// setAuthor makes the signed in user the author of a new post unless one was given.
func setAuthor(c *fiber.Ctx, post *models.BlogPost) {
	if user := auth.CurrentUser(c); user != nil && post.AuthorID == nil {
		id := user.ID
		post.AuthorID = &id
	}
}

func (s *Service) blogBySlug(c *fiber.Ctx) error {
	post, err := s.blog.FindPublicBySlug(c.UserContext(), c.Params(slugParam))
	if err != nil {
		return err
	}

	if err = attach(c.UserContext(), s.resolver, post); err != nil {
		return err
	}

	return c.JSON(post)
}

func (s *Service) addFeature(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	var feature models.PackageFeature
	if err = handler.BindJSON(c, &feature); err != nil {
		return err
	}

	created, err := s.pricing.AddFeature(c.UserContext(), id, &feature)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (s *Service) getFeature(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	feature, err := s.pricing.GetFeature(c.UserContext(), id)
	if err != nil {
		return err
	}

	return c.JSON(feature)
}

func (s *Service) deleteFeature(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, handler.IDParam)
	if err != nil {
		return err
	}

	if err = s.pricing.DeleteFeature(c.UserContext(), id); err != nil {
		return err
	}

	return c.JSON(handler.MessageResponse{Message: "package feature deleted"})
}
