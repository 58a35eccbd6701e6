package graph

import (
	"encoding/json"
	"net/http"

	"github.com/graphql-go/graphql"

	"github.com/printipid/printipid/pkg/response"
)

type graphqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Handler returns the HTTP handler for the reporting endpoint. The route is
// mounted behind the admin role.
func Handler(schema graphql.Schema) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req graphqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.Error(w, http.StatusBadRequest, "Invalid JSON body")
			return
		}
		if req.Query == "" {
			response.Error(w, http.StatusBadRequest, "Missing query")
			return
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			Context:        r.Context(),
		})

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(result) //nolint:errcheck
	}
}
