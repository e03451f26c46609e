// Package template defines the template engine contract the HTML renderer
// depends on. Concrete engines live in subpackages.
package template
