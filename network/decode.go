package network

import "context"

// Decode executes req through svc and decodes the response body into T with
// dec (JSONCodec when nil).
//
// Execution errors are returned unchanged. An empty body yields KindNoData,
// a decoder failure KindDecodingFailed carrying the decoder message.
func Decode[T any](ctx context.Context, svc Service, req Request, dec Decoder) (T, error) {
	var out T

	resp, err := svc.Execute(ctx, req)
	if err != nil {
		return out, err
	}
	if err := DecodeResponse(resp, dec, &out); err != nil {
		return out, err
	}
	return out, nil
}

// DecodeResponse decodes resp's body into v.
func DecodeResponse(resp Response, dec Decoder, v any) error {
	if len(resp.Body()) == 0 {
		return &Error{Kind: KindNoData}
	}
	if dec == nil {
		dec = JSONCodec{}
	}
	if err := dec.Decode(resp.Body(), v); err != nil {
		return NewDecodingError(err)
	}
	return nil
}
