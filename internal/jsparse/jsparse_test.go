package jsparse

import (
	"testing"
)

const listingPage = `<!doctype html>
<html>
<head>
<script src="/bundle.js"></script>
<script>var analytics = {};</script>
<script>
  window.DATA_STORE = JSON.parse("{\"plp\":{\"itemList\":{\"items\":[{\"productId\":\"GZ1154\",\"price\":120}],\"count\":1}}}");
  window.DATA_STORE.hydrated = true;
</script>
</head>
<body><div id="app"></div></body>
</html>`

func TestExtractStateFromJSONParse(t *testing.T) {
	var state struct {
		PLP struct {
			ItemList struct {
				Items []struct {
					ProductID string  `json:"productId"`
					Price     float64 `json:"price"`
				} `json:"items"`
				Count int `json:"count"`
			} `json:"itemList"`
		} `json:"plp"`
	}
	if err := UnmarshalState(listingPage, "DATA_STORE", &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	items := state.PLP.ItemList.Items
	if len(items) != 1 || items[0].ProductID != "GZ1154" || items[0].Price != 120 {
		t.Fatalf("items=%+v", items)
	}
}

func TestExtractStateObjectLiteral(t *testing.T) {
	// unquoted keys and single quotes are valid JS but not JSON
	page := `<html><script>
	window.__PRELOADED_STATE__ = {productListPage: {products: [{id: 'NM123', name: "Wrap Dress"}], totalProducts: 1}};
	(function(){ /* trailing hydration code */ })();
	</script></html>`

	var state struct {
		ProductListPage struct {
			Products []struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"products"`
			Total int `json:"totalProducts"`
		} `json:"productListPage"`
	}
	if err := UnmarshalState(page, "__PRELOADED_STATE__", &state); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if state.ProductListPage.Total != 1 || state.ProductListPage.Products[0].ID != "NM123" {
		t.Fatalf("state=%+v", state)
	}
}

func TestExtractStateMissingScript(t *testing.T) {
	if _, err := ExtractState("<html><body>plain page</body></html>", "DATA_STORE"); err == nil {
		t.Fatalf("expected error for page without state script")
	}
}

func TestExtractStateNeverAssigned(t *testing.T) {
	page := `<html><script>// DATA_STORE is mentioned but never set</script></html>`
	if _, err := ExtractState(page, "DATA_STORE"); err == nil {
		t.Fatalf("expected error when global is never assigned")
	}
}
