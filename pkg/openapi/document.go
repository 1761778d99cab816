// Package openapi builds the public OpenAPI document of a perfstub server.
//
// The document lists only documented fields. Fields a catalog's backend
// requires without documenting them never appear, which is the drift API
// testing tools are expected to find.
package openapi

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/getmockd/perfstub/pkg/discovery"
)

// Document metadata.
const (
	Title   = "PerfAI Test Endpoints"
	Version = "2.0.0"
)

// Catalog is the public view of one catalog.
type Catalog struct {
	Name     string
	BasePath string
	Label    string
	Features []string
	Post     discovery.FieldConfig
	Put      discovery.FieldConfig
	Samples  map[string]any
}

func (c Catalog) has(feature string) bool {
	for _, f := range c.Features {
		if strings.EqualFold(f, feature) {
			return true
		}
	}
	return false
}

// Build returns the document for the given catalogs and the fixture routes.
func Build(catalogs []Catalog) *openapi3.T {
	doc := &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:       Title,
			Description: "API endpoints for performance testing",
			Version:     Version,
		},
		Paths: openapi3.NewPaths(),
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{
				"Error": openapi3.NewSchemaRef("", errorSchema()),
			},
		},
	}

	for _, c := range catalogs {
		addCatalog(doc, c)
	}
	addFixtures(doc)
	return doc
}

func errorSchema() *openapi3.Schema {
	return openapi3.NewObjectSchema().
		WithProperty("error", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("timestamp", openapi3.NewDateTimeSchema())
}

func errorResponse(desc string) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().
		WithDescription(desc).
		WithJSONSchemaRef(openapi3.NewSchemaRef("#/components/schemas/Error", errorSchema()))}
}

func jsonResponse(desc string, schema *openapi3.Schema) *openapi3.ResponseRef {
	return &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(desc).WithJSONSchema(schema)}
}

func jsonBody(schema *openapi3.Schema) *openapi3.RequestBodyRef {
	return &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().WithRequired(true).WithJSONSchema(schema)}
}

func operation(tag, id, summary string) *openapi3.Operation {
	return &openapi3.Operation{
		Tags:        []string{tag},
		OperationID: id,
		Summary:     summary,
		Responses:   &openapi3.Responses{},
	}
}

func respond(op *openapi3.Operation, status int, ref *openapi3.ResponseRef) {
	op.Responses.Set(fmt.Sprint(status), ref)
}

func pathParam(name string) *openapi3.ParameterRef {
	return &openapi3.ParameterRef{Value: openapi3.NewPathParameter(name).WithSchema(openapi3.NewStringSchema())}
}

func queryParam(name, desc string) *openapi3.ParameterRef {
	p := openapi3.NewQueryParameter(name).WithSchema(openapi3.NewStringSchema())
	p.Description = desc
	return &openapi3.ParameterRef{Value: p}
}

// schemaFor infers a property schema from a sample value.
func schemaFor(sample any) *openapi3.Schema {
	switch v := sample.(type) {
	case bool:
		return openapi3.NewBoolSchema()
	case int, int32, int64:
		return openapi3.NewIntegerSchema()
	case float64:
		if v == float64(int64(v)) {
			return openapi3.NewIntegerSchema()
		}
		return openapi3.NewFloat64Schema()
	case float32:
		return openapi3.NewFloat64Schema()
	default:
		return openapi3.NewStringSchema()
	}
}

// fieldSchema describes the documented fields of fc.
func fieldSchema(fc discovery.FieldConfig, samples map[string]any, withRequired bool) *openapi3.Schema {
	s := openapi3.NewObjectSchema()
	for _, f := range fc.Documented() {
		s.WithProperty(f, schemaFor(samples[f]))
	}
	if withRequired && len(fc.DocumentedRequired) > 0 {
		s.Required = append([]string(nil), fc.DocumentedRequired...)
	}
	return s
}

func addCatalog(doc *openapi3.T, c Catalog) {
	tag := c.Label
	if tag == "" {
		tag = c.Name
	}
	record := fieldSchema(c.Put, c.Samples, false)

	list := operation(tag, c.Name+"List", "List all "+c.Name+" records")
	respond(list, http.StatusOK, jsonResponse("All records", openapi3.NewArraySchema().WithItems(record)))

	create := operation(tag, c.Name+"Create", "Create a "+c.Name+" record")
	create.RequestBody = jsonBody(fieldSchema(c.Post, c.Samples, true))
	respond(create, http.StatusCreated, jsonResponse("Created", openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("message", openapi3.NewStringSchema()).
		WithPropertyRef("data", openapi3.NewSchemaRef("", record))))
	respond(create, http.StatusBadRequest, errorResponse("Invalid request body"))

	doc.Paths.Set(c.BasePath, &openapi3.PathItem{Get: list, Post: create})

	get := operation(tag, c.Name+"Get", "Get a "+c.Name+" record by id")
	get.Parameters = openapi3.Parameters{pathParam("id")}
	respond(get, http.StatusOK, jsonResponse("Record", openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithPropertyRef("data", openapi3.NewSchemaRef("", record))))
	respond(get, http.StatusNotFound, errorResponse("Record not found"))

	replace := operation(tag, c.Name+"Replace", "Replace a "+c.Name+" record")
	replace.Parameters = openapi3.Parameters{pathParam("id")}
	replace.RequestBody = jsonBody(fieldSchema(c.Put, c.Samples, true))
	respond(replace, http.StatusOK, jsonResponse("Replaced", openapi3.NewObjectSchema()))
	respond(replace, http.StatusBadRequest, errorResponse("Invalid request body"))

	patch := operation(tag, c.Name+"Patch", "Partially update a "+c.Name+" record")
	patch.Parameters = openapi3.Parameters{pathParam("id")}
	patch.RequestBody = jsonBody(fieldSchema(c.Put, c.Samples, false))
	respond(patch, http.StatusOK, jsonResponse("Updated", openapi3.NewObjectSchema()))
	respond(patch, http.StatusBadRequest, errorResponse("Invalid request body"))

	del := operation(tag, c.Name+"Delete", "Delete a "+c.Name+" record")
	del.Parameters = openapi3.Parameters{pathParam("id")}
	respond(del, http.StatusOK, jsonResponse("Deleted", openapi3.NewObjectSchema()))
	respond(del, http.StatusNotFound, errorResponse("Record not found"))

	doc.Paths.Set(c.BasePath+"/{id}", &openapi3.PathItem{Get: get, Put: replace, Patch: patch, Delete: del})

	if c.has("order") {
		order := operation(tag, c.Name+"Order", "Create an order")
		order.Description = "The orderDate is generated by the server and cannot be provided by the client."
		order.RequestBody = jsonBody(openapi3.NewObjectSchema().
			WithProperty("itemId", openapi3.NewStringSchema()).
			WithProperty("quantity", openapi3.NewFloat64Schema()).
			WithProperty("status", openapi3.NewStringSchema().WithEnum("pending", "approved", "delivered")).
			WithProperty("complete", openapi3.NewBoolSchema()).
			WithProperty("basePrice", openapi3.NewFloat64Schema()))
		respond(order, http.StatusOK, jsonResponse("Order created", openapi3.NewObjectSchema()))
		respond(order, http.StatusBadRequest, errorResponse("orderDate supplied"))
		doc.Paths.Set(c.BasePath+"/order", &openapi3.PathItem{Post: order})
	}

	if c.has("inventory") {
		find := operation(tag, c.Name+"FindByStatus", "Find records by status")
		p := queryParam("status", "Status values to match")
		p.Value.Required = true
		find.Parameters = openapi3.Parameters{p}
		respond(find, http.StatusOK, jsonResponse("Matching records", openapi3.NewArraySchema().WithItems(record)))
		respond(find, http.StatusBadRequest, errorResponse("Missing status"))
		doc.Paths.Set(c.BasePath+"/findByStatus", &openapi3.PathItem{Get: find})

		inv := operation(tag, c.Name+"Inventory", "Stock totals by status")
		respond(inv, http.StatusOK, jsonResponse("Totals", openapi3.NewObjectSchema().
			WithAdditionalProperties(openapi3.NewFloat64Schema())))
		doc.Paths.Set(c.BasePath+"/inventory", &openapi3.PathItem{Get: inv})
	}
}

func addFixtures(doc *openapi3.T) {
	listOf := func(item *openapi3.Schema) *openapi3.Schema {
		return openapi3.NewObjectSchema().
			WithProperty("status", openapi3.NewStringSchema()).
			WithProperty("count", openapi3.NewIntegerSchema()).
			WithProperty("data", openapi3.NewArraySchema().WithItems(item))
	}

	user := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("age", openapi3.NewIntegerSchema()).
		WithProperty("email", openapi3.NewStringSchema().WithFormat("email"))
	users := operation("Users", "usersList", "Get all users")
	users.Parameters = openapi3.Parameters{queryParam("sort", "+field for ascending, -field for descending (e.g. +name, -age)")}
	respond(users, http.StatusOK, jsonResponse("Users", listOf(user)))
	doc.Paths.Set("/api/users", &openapi3.PathItem{Get: users})

	product := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("category", openapi3.NewStringSchema())
	products := operation("Products", "productsList", "Get all products")
	products.Parameters = openapi3.Parameters{queryParam("sortBy", "Sort field and order, e.g. name:asc, price:desc")}
	respond(products, http.StatusOK, jsonResponse("Products", listOf(product)))
	doc.Paths.Set("/api/products", &openapi3.PathItem{Get: products})

	updateProduct := operation("Products", "productsUpdate", "Update a product")
	updateProduct.Parameters = openapi3.Parameters{pathParam("id")}
	body := openapi3.NewObjectSchema().
		WithProperty("name", openapi3.NewStringSchema()).
		WithProperty("price", openapi3.NewFloat64Schema()).
		WithProperty("category", openapi3.NewStringSchema())
	body.Required = []string{"name", "price", "category"}
	updateProduct.RequestBody = jsonBody(body)
	respond(updateProduct, http.StatusOK, jsonResponse("Product updated", openapi3.NewObjectSchema()))
	respond(updateProduct, http.StatusBadRequest, errorResponse("Missing required fields"))
	doc.Paths.Set("/api/products/{id}", &openapi3.PathItem{Put: updateProduct})

	task := openapi3.NewObjectSchema().
		WithProperty("id", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("priority", openapi3.NewStringSchema()).
		WithProperty("dueDate", openapi3.NewStringSchema().WithFormat("date")).
		WithProperty("status", openapi3.NewStringSchema())
	tasks := operation("Tasks", "tasksList", "Task list with sorting")
	order := queryParam("order", "Sort order")
	order.Value.Schema.Value.WithEnum("asc", "desc")
	tasks.Parameters = openapi3.Parameters{order}
	respond(tasks, http.StatusOK, jsonResponse("Tasks", listOf(task).WithProperty("requestedOrder", openapi3.NewStringSchema())))
	doc.Paths.Set("/api/tasks", &openapi3.PathItem{Get: tasks})

	orders := operation("Orders", "ordersList", "Get all orders")
	orders.Parameters = openapi3.Parameters{
		queryParam("sortField", "Field to sort by, e.g. date or total"),
		queryParam("sortOrder", "asc or desc"),
	}
	respond(orders, http.StatusOK, jsonResponse("Orders", listOf(openapi3.NewObjectSchema())))
	doc.Paths.Set("/api/orders", &openapi3.PathItem{Get: orders})

	token := operation("Test Token", "testToken", "Generate a test JWT token with username and password")
	creds := openapi3.NewObjectSchema().
		WithProperty("username", openapi3.NewStringSchema()).
		WithProperty("password", openapi3.NewStringSchema())
	creds.Required = []string{"username", "password"}
	token.RequestBody = jsonBody(creds)
	respond(token, http.StatusOK, jsonResponse("JWT token generated", openapi3.NewObjectSchema().
		WithProperty("token", openapi3.NewStringSchema())))
	respond(token, http.StatusBadRequest, errorResponse("Missing username or password"))
	doc.Paths.Set("/api/test-token/token", &openapi3.PathItem{Post: token})

	upload := operation("Security", "pdfUpload", "PDF Upload Endpoint")
	form := openapi3.NewObjectSchema().WithProperty("file", openapi3.NewStringSchema().WithFormat("binary"))
	form.Required = []string{"file"}
	upload.RequestBody = &openapi3.RequestBodyRef{Value: openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithFormDataSchema(form))}
	respond(upload, http.StatusOK, jsonResponse("File received", openapi3.NewObjectSchema().
		WithProperty("filename", openapi3.NewStringSchema()).
		WithProperty("mimetype", openapi3.NewStringSchema()).
		WithProperty("size", openapi3.NewIntegerSchema())))
	respond(upload, http.StatusBadRequest, errorResponse("No file uploaded"))
	doc.Paths.Set("/api/file/pdf/upload", &openapi3.PathItem{Post: upload})

	remediation := func(id, summary string, status int) *openapi3.Operation {
		op := operation("Remediation", id, summary)
		respond(op, status, jsonResponse(http.StatusText(status), openapi3.NewObjectSchema()))
		return op
	}
	doc.Paths.Set("/api/remediation", &openapi3.PathItem{
		Get:  remediation("remediationList", "Simple GET endpoint", http.StatusOK),
		Post: remediation("remediationCreate", "Simple POST endpoint", http.StatusCreated),
	})
	byID := &openapi3.PathItem{
		Get:    remediation("remediationGet", "Simple GET endpoint with ID parameter", http.StatusOK),
		Put:    remediation("remediationReplace", "Simple PUT endpoint", http.StatusOK),
		Patch:  remediation("remediationPatch", "Simple PATCH endpoint", http.StatusOK),
		Delete: remediation("remediationDelete", "Simple DELETE endpoint", http.StatusOK),
	}
	byID.Parameters = openapi3.Parameters{pathParam("id")}
	doc.Paths.Set("/api/remediation/{id}", byID)
}

// PathKeys returns the document's paths in sorted order.
func PathKeys(doc *openapi3.T) []string {
	keys := make([]string, 0, doc.Paths.Len())
	for k := range doc.Paths.Map() {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
