// Package render draws the personalized name card over the overlay base
// image, and the static apology card used when compositing fails. It works
// purely on in-memory images; callers own all file I/O.
package render
