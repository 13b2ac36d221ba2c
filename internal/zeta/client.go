// Package zeta synchronizes the inventory with the Zeta Software ERP through
// its SOAP StockActualV3 API.
package zeta

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Wgabrielq/pcp-enigma/internal/model"
)

const soapAction = "apis.ASOAPSTOCKACTUALV3.QUERY"

// envelopeTemplate is the SOAP request defined by the StockActualV3 WSDL.
// Page 1 with a wide-open quantity filter returns the whole stock snapshot.
const envelopeTemplate = `<soapenv:Envelope xmlns:soapenv="http://schemas.xmlsoap.org/soap/envelope/" xmlns:zet="ZetaSoftware">
   <soapenv:Header/>
   <soapenv:Body>
      <zet:SOAPStockActualV3.QUERY>
         <zet:Queryin>
            <zet:Connection>
               <zet:DesarrolladorCodigo>%s</zet:DesarrolladorCodigo>
               <zet:DesarrolladorClave>%s</zet:DesarrolladorClave>
               <zet:EmpresaCodigo>%s</zet:EmpresaCodigo>
               <zet:EmpresaClave>%s</zet:EmpresaClave>
               <zet:UsuarioCodigo>%s</zet:UsuarioCodigo>
               <zet:UsuarioClave>%s</zet:UsuarioClave>
               <zet:RolCodigo>%s</zet:RolCodigo>
            </zet:Connection>
            <zet:Data>
               <zet:Page>1</zet:Page>
               <zet:Filters>
                   <zet:VencimientoDesde xsi:nil="true" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"/>
                   <zet:VencimientoHasta xsi:nil="true" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance"/>
                   <zet:DepositoCodigo>0</zet:DepositoCodigo>
                   <zet:LocalCodigo>0</zet:LocalCodigo>
                   <zet:CantidadDesde>0</zet:CantidadDesde>
                   <zet:CantidadHasta>999999</zet:CantidadHasta>
               </zet:Filters>
            </zet:Data>
         </zet:Queryin>
      </zet:SOAPStockActualV3.QUERY>
   </soapenv:Body>
</soapenv:Envelope>`

// StockItem is one article row from the ERP's stock snapshot.
type StockItem struct {
	Code    string
	Name    string
	StockKg float64
}

// Client is a SOAP client for the Zeta stock API.
type Client struct {
	cfg        model.ZetaConfig
	httpClient *http.Client
}

// NewClient creates a Client with a 30 second request timeout.
func NewClient(cfg model.ZetaConfig) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// xmlEscape escapes credential values embedded in the request envelope.
func xmlEscape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// FetchStock queries the ERP and returns the raw article rows.
func (c *Client) FetchStock(ctx context.Context) ([]StockItem, error) {
	envelope := fmt.Sprintf(envelopeTemplate,
		xmlEscape(c.cfg.DeveloperCode), xmlEscape(c.cfg.DeveloperKey),
		xmlEscape(c.cfg.CompanyCode), xmlEscape(c.cfg.CompanyKey),
		xmlEscape(c.cfg.UserCode), xmlEscape(c.cfg.UserKey),
		xmlEscape(c.cfg.RoleCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, strings.NewReader(envelope))
	if err != nil {
		return nil, fmt.Errorf("failed to build stock request: %w", err)
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", "ZetaSoftwareaction/"+soapAction)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("stock request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stock request failed: HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock response: %w", err)
	}

	return parseStockResponse(body)
}

// parseStockResponse walks the response XML and collects every <Item>
// element's ArticuloCodigo, ArticuloNombre and StockActual. A SOAP Fault
// anywhere in the document is an error.
func parseStockResponse(body []byte) ([]StockItem, error) {
	decoder := xml.NewDecoder(strings.NewReader(string(body)))

	var items []StockItem
	var current *StockItem
	var field string

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed stock response: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "Fault":
				var fault struct {
					Content string `xml:",innerxml"`
				}
				if err := decoder.DecodeElement(&fault, &t); err != nil {
					return nil, fmt.Errorf("malformed SOAP fault: %w", err)
				}
				return nil, fmt.Errorf("SOAP fault: %s", strings.TrimSpace(fault.Content))
			case "Item":
				current = &StockItem{}
			case "ArticuloCodigo", "ArticuloNombre", "StockActual":
				if current != nil {
					field = t.Name.Local
				}
			}
		case xml.CharData:
			if current == nil || field == "" {
				continue
			}
			text := strings.TrimSpace(string(t))
			switch field {
			case "ArticuloCodigo":
				current.Code += text
			case "ArticuloNombre":
				current.Name += text
			case "StockActual":
				if v, err := strconv.ParseFloat(text, 64); err == nil {
					current.StockKg = v
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "Item":
				if current != nil {
					items = append(items, *current)
					current = nil
				}
			case "ArticuloCodigo", "ArticuloNombre", "StockActual":
				field = ""
			}
		}
	}

	return items, nil
}
