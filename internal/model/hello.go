package model

// HelloRequest is the demonstration payload accepted by the hello endpoints.
// Name is a pointer so a missing field can be told apart from an empty one.
type HelloRequest struct {
	Name *string `json:"name"`
}

// HelloResponse greets a validated name.
type HelloResponse struct {
	Message string `json:"message"`
}

// HelloAPIViewResponse is returned by GET on the hello API view.
type HelloAPIViewResponse struct {
	Message   string   `json:"message"`
	AnAPIView []string `json:"an_apiview"`
}

// HelloViewSetResponse is returned by the hello viewset list action.
type HelloViewSetResponse struct {
	Message  string   `json:"message"`
	AViewSet []string `json:"a_viewset"`
}

// MethodResponse echoes the HTTP method an API view handled.
type MethodResponse struct {
	Method string `json:"method"`
}

// ActionResponse echoes the HTTP method a viewset detail action handled.
type ActionResponse struct {
	HTTPMethod string `json:"http_method"`
}
