package gke

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// DefaultBaseURL is the versioned GKE REST endpoint.
const DefaultBaseURL = "https://container.googleapis.com/v1/"

// Link templates, relative to the base URL.
const (
	clusterTemplate    = "projects/{{project}}/locations/{{location}}/clusters/{{cluster}}"
	collectionTemplate = clusterTemplate + "/nodePools"
	selfLinkTemplate   = collectionTemplate + "/{{name}}"
	operationTemplate  = "projects/{{project}}/locations/{{location}}/operations/{{op_id}}"
)

var variablePattern = regexp.MustCompile(`{{([^}]*)}}`)

// Identity is the composite key of a node pool.
type Identity struct {
	Project  string
	Location string
	Cluster  string
	Name     string
}

func (id Identity) String() string {
	return fmt.Sprintf("%s/%s/%s/%s", id.Project, id.Location, id.Cluster, id.Name)
}

// Variables returns the template variables the identity declares. Empty
// fields are left out so that templates referencing them fail.
func (id Identity) Variables() map[string]string {
	vars := make(map[string]string, 4)
	for k, v := range map[string]string{
		"project":  id.Project,
		"location": id.Location,
		"cluster":  id.Cluster,
		"name":     id.Name,
	} {
		if v != "" {
			vars[k] = v
		}
	}
	return vars
}

// ExtractVariables lists the variable names referenced by template, in order.
func ExtractVariables(template string) []string {
	matches := variablePattern.FindAllStringSubmatch(template, -1)
	names := make([]string, 0, len(matches))
	for _, m := range matches {
		names = append(names, m[1])
	}
	return names
}

// ExpandVariables substitutes {{var}} placeholders with path-escaped values.
// extra takes precedence over vars. A variable with no value is a ConfigError.
func ExpandVariables(template string, vars map[string]string, extra map[string]string) (string, error) {
	out := template
	for _, name := range ExtractVariables(template) {
		value, ok := extra[name]
		if !ok {
			value, ok = vars[name]
		}
		if !ok {
			return "", &ConfigError{Variable: name, Template: template}
		}
		out = strings.ReplaceAll(out, "{{"+name+"}}", url.PathEscape(value))
	}
	return out, nil
}

func join(baseURL, relative string) string {
	return strings.TrimSuffix(baseURL, "/") + "/" + strings.TrimPrefix(relative, "/")
}

func expand(baseURL, template string, id Identity, extra map[string]string) (string, error) {
	path, err := ExpandVariables(template, id.Variables(), extra)
	if err != nil {
		return "", err
	}
	return join(baseURL, path), nil
}

// CollectionLink is the node pool collection of the identity's cluster.
func CollectionLink(baseURL string, id Identity) (string, error) {
	return expand(baseURL, collectionTemplate, id, nil)
}

// SelfLink is the node pool itself.
func SelfLink(baseURL string, id Identity) (string, error) {
	return expand(baseURL, selfLinkTemplate, id, nil)
}

// ClusterLink is the cluster the node pool belongs to.
func ClusterLink(baseURL string, id Identity) (string, error) {
	return expand(baseURL, clusterTemplate, id, nil)
}

// OperationLink is the status endpoint of an operation in the identity's
// project and location.
func OperationLink(baseURL string, id Identity, operation string) (string, error) {
	return expand(baseURL, operationTemplate, id, map[string]string{"op_id": operation})
}

// resolveLink turns a link returned by the API into an absolute URL.
func resolveLink(baseURL, link string) string {
	if u, err := url.Parse(link); err == nil && u.IsAbs() {
		return link
	}
	return join(baseURL, link)
}
