package models

// All returns every model of the content database, in migration order.
// SessionRecord is not included; it only exists when sessions live in the database.
func All() []any {
	return []any{
		&User{},
		&Media{},
		&GalleryItem{},
		&Service{},
		&PricingPackage{},
		&PackageFeature{},
		&FAQ{},
		&BlogPost{},
		&Testimonial{},
		&ContactSubmission{},
	}
}
