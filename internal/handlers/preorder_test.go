// internal/handlers/preorder_test.go
package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

// Request-shape tests: everything here must be rejected before any service
// is touched, so the handlers run against nil services.
type PreorderHandlerSuite struct {
	suite.Suite
	router *gin.Engine
}

func (suite *PreorderHandlerSuite) SetupSuite() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()

	handler := NewPreorderHandler(nil, nil)
	products := suite.router.Group("/products")
	{
		products.GET("/:id/preorder", handler.GetEligibility)
		products.POST("/:id/preorder/enable", handler.EnablePreorder)
		products.POST("/:id/preorder/reserve", handler.Reserve)
	}
	suite.router.DELETE("/preorder-reservations/:id", handler.CancelReservation)
}

func (suite *PreorderHandlerSuite) postJSON(path string, body interface{}) *httptest.ResponseRecorder {
	jsonData, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", path, bytes.NewBuffer(jsonData))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *PreorderHandlerSuite) TestEnablePreorderRejectsBadProductID() {
	w := suite.postJSON("/products/not-a-uuid/preorder/enable", gin.H{})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *PreorderHandlerSuite) TestReserveRejectsBadProductID() {
	w := suite.postJSON("/products/123/preorder/reserve", gin.H{
		"customer_email": "shopper@example.com",
		"quantity":       1,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *PreorderHandlerSuite) TestReserveRejectsMissingEmail() {
	w := suite.postJSON("/products/7f6c5c64-52fd-4a9d-b5d5-95c26df1f8a6/preorder/reserve", gin.H{
		"quantity": 1,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(suite.T(), err)
	assert.False(suite.T(), response["success"].(bool))
}

func (suite *PreorderHandlerSuite) TestReserveRejectsZeroQuantity() {
	w := suite.postJSON("/products/7f6c5c64-52fd-4a9d-b5d5-95c26df1f8a6/preorder/reserve", gin.H{
		"customer_email": "shopper@example.com",
		"quantity":       0,
	})
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *PreorderHandlerSuite) TestCancelRejectsBadReservationID() {
	req, _ := http.NewRequest("DELETE", "/preorder-reservations/oops", nil)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func TestPreorderHandlerSuite(t *testing.T) {
	suite.Run(t, new(PreorderHandlerSuite))
}
