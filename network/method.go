package network

import nethttp "net/http"

// Method is an HTTP verb supported by the networking layer.
type Method string

const (
	MethodGet     Method = nethttp.MethodGet
	MethodPost    Method = nethttp.MethodPost
	MethodPut     Method = nethttp.MethodPut
	MethodPatch   Method = nethttp.MethodPatch
	MethodDelete  Method = nethttp.MethodDelete
	MethodHead    Method = nethttp.MethodHead
	MethodOptions Method = nethttp.MethodOptions
)

// Valid reports whether m is one of the supported verbs.
func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodPost, MethodPut, MethodPatch, MethodDelete, MethodHead, MethodOptions:
		return true
	default:
		return false
	}
}

func (m Method) String() string {
	return string(m)
}
