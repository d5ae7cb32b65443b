// Package weburl validates messaging endpoint URLs of the form proto://address and joins URL path pieces.
package weburl
