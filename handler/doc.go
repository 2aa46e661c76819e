// Package handler provides type-safe HTTP request handling for JSON APIs.
//
// Handlers are generic functions that receive a bound request struct and
// return a Response:
//
//	type registerRequest struct {
//		Name     string `json:"name"`
//		Email    string `json:"email"`
//		Password string `json:"password"`
//	}
//
//	func register(ctx handler.Context, req registerRequest) handler.Response {
//		res, err := svc.Register(ctx, auth.RegisterInput(req))
//		if err != nil {
//			return handler.JSONError(err)
//		}
//		return handler.JSON(res, handler.WithJSONStatus(http.StatusCreated))
//	}
//
//	r.Post("/register", handler.Wrap(register,
//		handler.WithBinders[handler.Context, registerRequest](binder.JSON()),
//	))
//
// # Responses
//
// Successful payloads are wrapped as {"data": ...}. Errors are rendered as
// {"error": {"code": ..., "message": ..., "details": ...}}:
//
//   - HTTPError keeps its status, key and message.
//   - validator.ValidationErrors answer 400 "validation_error" with per-field details.
//   - binder errors answer 400, 413 or 415.
//   - anything else answers a generic 500 "internal_error".
//
// Binding and rendering failures go through the ErrorHandler, which defaults
// to the same envelope.
package handler
