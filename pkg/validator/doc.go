// Package validator provides rule-based input validation.
//
// Rules are plain values evaluated by Apply, which collects every failure
// instead of stopping at the first one:
//
//	err := validator.Apply(
//		validator.RequiredString("name", in.Name),
//		validator.ValidEmail("email", in.Email),
//		validator.MinLenString("password", in.Password, 6),
//	)
//	if ve := validator.ExtractValidationErrors(err); ve != nil {
//		fmt.Println(ve.Map())
//	}
//
// Lengths are measured in bytes.
package validator
