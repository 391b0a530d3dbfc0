package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagController(t *testing.T) {
	s := setupServer(t)

	w := s.do(t, http.MethodGet, "/api/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeList(t, w), 2)

	w = s.do(t, http.MethodGet, fmt.Sprintf("/api/tags/%d", s.tags[1].ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "lunch", decode(t, w)["slug"])

	w = s.do(t, http.MethodGet, "/api/tags/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "TAG_NOT_FOUND", decode(t, w)["error"])
}

func TestIngredientController(t *testing.T) {
	s := setupServer(t)

	tests := []struct {
		query string
		want  []string
	}{
		{query: "", want: []string{"carrot", "milk", "potato"}},
		{query: "?name=P", want: []string{"potato"}},
		{query: "?name=ca", want: []string{"carrot"}},
		{query: "?name=rot", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			w := s.do(t, http.MethodGet, "/api/ingredients"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code)

			names := []string{}
			for _, item := range decodeList(t, w) {
				names = append(names, item.(map[string]interface{})["name"].(string))
			}
			assert.Equal(t, tt.want, names)
		})
	}

	w := s.do(t, http.MethodGet, fmt.Sprintf("/api/ingredients/%d", s.ingredients[2].ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ml", decode(t, w)["measurement_unit"])

	w = s.do(t, http.MethodGet, "/api/ingredients/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
