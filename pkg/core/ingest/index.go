package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// FilingIndexDocument represents a document in the filing index.
type FilingIndexDocument struct {
	Name string
	Type string
	Size int
	URL  string
}

// FilingIndex lists the documents of a filing folder via its index.json.
func (c *EDGARClient) FilingIndex(ctx context.Context, cik, accession string) ([]FilingIndexDocument, error) {
	folder := c.filingFolderURL(cik, accession)
	body, err := c.fetchURL(ctx, folder+"/index.json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch filing index: %w", err)
	}
	return parseFilingIndex(body, folder+"/")
}

// parseFilingIndex parses the SEC filing index JSON
func parseFilingIndex(body []byte, baseURL string) ([]FilingIndexDocument, error) {
	var index struct {
		Directory struct {
			Item []struct {
				Name string `json:"name"`
				Type string `json:"type"`
				Size string `json:"size"`
			} `json:"item"`
		} `json:"directory"`
	}

	if err := json.Unmarshal(body, &index); err != nil {
		return nil, fmt.Errorf("failed to parse filing index: %w", err)
	}

	documents := make([]FilingIndexDocument, 0, len(index.Directory.Item))
	for _, item := range index.Directory.Item {
		size := 0
		fmt.Sscanf(item.Size, "%d", &size)

		documents = append(documents, FilingIndexDocument{
			Name: item.Name,
			Type: item.Type,
			Size: size,
			URL:  baseURL + item.Name,
		})
	}
	return documents, nil
}

// XBRLDocuments is the document triplet of a filing.
type XBRLDocuments struct {
	Instance     FilingIndexDocument
	Labels       FilingIndexDocument
	Presentation FilingIndexDocument
}

// SelectXBRLDocuments picks the label linkbase (*_lab.xml), the presentation linkbase
// (*_pre.xml) and the instance document from a filing index. The instance is the
// *_htm.xml extracted from inline XBRL when present, otherwise the one .xml file
// that is neither a linkbase nor FilingSummary.xml.
func SelectXBRLDocuments(docs []FilingIndexDocument) (XBRLDocuments, error) {
	var (
		out      XBRLDocuments
		plainXML []FilingIndexDocument
		haveHTM  bool
		found    = map[string]bool{}
	)
	for _, d := range docs {
		name := strings.ToLower(d.Name)
		switch {
		case strings.HasSuffix(name, "_lab.xml"):
			out.Labels, found["labels"] = d, true
		case strings.HasSuffix(name, "_pre.xml"):
			out.Presentation, found["presentation"] = d, true
		case strings.HasSuffix(name, "_htm.xml"):
			out.Instance, haveHTM = d, true
		case strings.HasSuffix(name, "_cal.xml"), strings.HasSuffix(name, "_def.xml"),
			name == "filingsummary.xml", !strings.HasSuffix(name, ".xml"):
		default:
			plainXML = append(plainXML, d)
		}
	}
	if !haveHTM && len(plainXML) > 0 {
		out.Instance = plainXML[0]
		haveHTM = true
	}

	var missing []string
	if !haveHTM {
		missing = append(missing, "instance")
	}
	for _, k := range []string{"labels", "presentation"} {
		if !found[k] {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return out, fmt.Errorf("filing index lacks %s document(s)", strings.Join(missing, ", "))
	}
	return out, nil
}
