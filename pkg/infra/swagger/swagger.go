// Package swagger publishes an OpenAPI document and the swagger UI on a gin
// router.
package swagger

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/swaggo/swag"

	swaggeropts "github.com/kart-io/launchpad/pkg/options/swagger"
)

// DefaultInstance is the swag registry name used when a document does not
// set InfoInstanceName.
const DefaultInstance = swag.Name

const emptyTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "{{.Title}}",
        "description": "{{escape .Description}}",
        "version": "{{.Version}}"
    },
    "basePath": "{{.BasePath}}",
    "paths": {}
}`

var (
	mu         sync.Mutex
	registered = map[string]*swag.Spec{}
)

// Publish serves doc under prefix+opts.NormalizedPath() and returns that
// path. Title, description and version from opts override the document's.
// A nil doc publishes an empty document. Publishing the same instance
// again replaces its content.
func Publish(r gin.IRouter, prefix string, opts *swaggeropts.Options, doc *swag.Spec) string {
	spec := build(prefix, opts, doc)
	register(spec)

	path := JoinPath(prefix, opts.NormalizedPath())
	files := *swaggerFiles.Handler
	files.Prefix = path
	r.GET(path+"/*any", ginSwagger.WrapHandler(&files,
		ginSwagger.InstanceName(spec.InfoInstanceName),
	))
	return path
}

// JoinPath joins URL path segments with single slashes and a leading one.
func JoinPath(parts ...string) string {
	var segments []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			segments = append(segments, p)
		}
	}
	return "/" + strings.Join(segments, "/")
}

func build(prefix string, opts *swaggeropts.Options, doc *swag.Spec) *swag.Spec {
	spec := swag.Spec{SwaggerTemplate: emptyTemplate}
	if doc != nil {
		spec = *doc
	}
	if spec.InfoInstanceName == "" {
		spec.InfoInstanceName = DefaultInstance
	}
	if spec.LeftDelim == "" {
		spec.LeftDelim, spec.RightDelim = "{{", "}}"
	}
	if opts.Title != "" {
		spec.Title = opts.Title
	}
	if opts.Description != "" {
		spec.Description = opts.Description
	}
	if opts.Version != "" {
		spec.Version = opts.Version
	}
	if spec.BasePath == "" {
		spec.BasePath = JoinPath(prefix)
	}
	return &spec
}

func register(spec *swag.Spec) {
	mu.Lock()
	defer mu.Unlock()
	if existing, ok := registered[spec.InfoInstanceName]; ok {
		*existing = *spec
		return
	}
	// Generated docs packages register themselves from init.
	if generated, ok := swag.GetSwagger(spec.InfoInstanceName).(*swag.Spec); ok {
		*generated = *spec
		registered[spec.InfoInstanceName] = generated
		return
	}
	registered[spec.InfoInstanceName] = spec
	swag.Register(spec.InfoInstanceName, spec)
}
