// Package pkgconfig reads service settings through the Config interface.
//
// Viper is the only implementation. It layers built-in defaults, an optional
// YAML file and BANKOCR_* environment variables, so modules read keys such
// as "modules.ocr.marker" without knowing where the value came from.
// Binary values are stored base64 encoded.
package pkgconfig
