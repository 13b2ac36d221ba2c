package zeta

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResponse = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <SOAPStockActualV3.QUERYResponse>
      <Queryout>
        <Items>
          <Item>
            <ArticuloCodigo>ART-001</ArticuloCodigo>
            <ArticuloNombre>BOPP VITOPEL 20 MIC 450 MM</ArticuloNombre>
            <StockActual>1250.5</StockActual>
          </Item>
          <Item>
            <ArticuloCodigo>ART-002</ArticuloCodigo>
            <ArticuloNombre>CAJA CARTON 40X60</ArticuloNombre>
            <StockActual>300</StockActual>
          </Item>
        </Items>
      </Queryout>
    </SOAPStockActualV3.QUERYResponse>
  </soapenv:Body>
</soapenv:Envelope>`

const faultResponse = `<?xml version="1.0" encoding="utf-8"?>
<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/">
  <soapenv:Body>
    <soapenv:Fault>
      <faultcode>soapenv:Client</faultcode>
      <faultstring>Invalid credentials</faultstring>
    </soapenv:Fault>
  </soapenv:Body>
</soapenv:Envelope>`

func TestParseStockResponse(t *testing.T) {
	items, err := parseStockResponse([]byte(sampleResponse))

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "ART-001", items[0].Code)
	assert.Equal(t, "BOPP VITOPEL 20 MIC 450 MM", items[0].Name)
	assert.Equal(t, 1250.5, items[0].StockKg)
	assert.Equal(t, 300.0, items[1].StockKg)
}

func TestParseStockResponse_Fault(t *testing.T) {
	_, err := parseStockResponse([]byte(faultResponse))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "SOAP fault")
	assert.Contains(t, err.Error(), "Invalid credentials")
}

func TestFetchStock(t *testing.T) {
	var gotAction, gotContentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAction = r.Header.Get("SOAPAction")
		gotContentType = r.Header.Get("Content-Type")
		w.Write([]byte(sampleResponse))
	}))
	defer server.Close()

	cfg := model.ZetaConfig{APIURL: server.URL, DeveloperCode: "dev", RoleCode: "0"}
	items, err := NewClient(cfg).FetchStock(context.Background())

	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, "ZetaSoftwareaction/apis.ASOAPSTOCKACTUALV3.QUERY", gotAction)
	assert.Equal(t, "text/xml; charset=utf-8", gotContentType)
}

func TestFetchStock_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	cfg := model.ZetaConfig{APIURL: server.URL}
	_, err := NewClient(cfg).FetchStock(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 403")
}
