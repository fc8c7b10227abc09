package service

import "github.com/microcosm-cc/bluemonday"

// aboutUsPolicy keeps only the markup the landing template renders.
var aboutUsPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("p", "strong", "br")
	return p
}()

// SanitizeAboutUs strips everything but p, strong and br tags from
// the request's about-us text before it reaches public landings.
func SanitizeAboutUs(html string) string {
	return aboutUsPolicy.Sanitize(html)
}
