package middleware

import (
	"strings"

	"google.golang.org/grpc/codes"
)

// splitFullMethod derives the service and method labels from a gRPC full
// method name of the form "/package.Service/Method".
//
// Paths that do not start with a separator are kept whole as the method
// with an empty service; a path with a leading separator but no second one
// loses the leading separator. Both fallbacks label the call rather than
// failing it. The split uses only the first separator after the leading
// one, so trailing segments stay part of the method.
func splitFullMethod(fullMethod string) (service, method string) {
	if !strings.HasPrefix(fullMethod, "/") {
		return "", fullMethod
	}

	name := fullMethod[1:]
	i := strings.Index(name, "/")
	if i < 0 {
		return "", name
	}

	return name[:i], name[i+1:]
}

// codeLabel renders a status code as the grpc_code label value. codes.OK is
// rendered as "Ok" to stay compatible with the label values earlier releases
// emitted; every other code uses its canonical name.
func codeLabel(code codes.Code) string {
	if code == codes.OK {
		return "Ok"
	}
	return code.String()
}
