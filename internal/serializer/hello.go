package serializer

import "github.com/wmbogo12/profiles-rest-api/internal/model"

// HelloSerializer validates the name field used by the hello endpoints.
type HelloSerializer struct{}

func (HelloSerializer) Validate(in model.HelloRequest, _ bool) error {
	ve := &ValidationError{}
	checkString(ve, "name", in.Name, true, false, "max=10")
	return ve.errOrNil()
}
