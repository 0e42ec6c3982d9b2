package bulkupload

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

// FieldDoc describes one input field for templates and the PDF guide.
type FieldDoc struct {
	Path        string
	Required    bool
	Type        string
	Description string
	Values      []string
}

var fieldDocs = map[Kind][]FieldDoc{
	KindUsers: {
		{Path: "name", Required: true, Type: "string", Description: "Full name"},
		{Path: "email", Required: true, Type: "email", Description: "Unique login email, case-insensitive"},
		{Path: "phone", Type: "string", Description: "Contact number"},
		{Path: "password", Type: "string", Description: "At least 6 characters; random when omitted"},
		{Path: "role", Type: "enum", Description: "Defaults to user", Values: userRoles.Values()},
		{Path: "isActive", Type: "boolean", Description: "Defaults to true"},
		{Path: "permissions", Type: "object", Description: "Overrides the role's default permission flags"},
	},
	KindDevelopers: {
		{Path: "name", Required: true, Type: "string", Description: "Developer name, unique"},
		{Path: "slug", Type: "string", Description: "Generated from the name when omitted"},
		{Path: "logo", Type: "image", Description: "Image URL or uploaded file path"},
		{Path: "description", Type: "string", Description: "Free text"},
	},
	KindGovernorates: {
		{Path: "name", Required: true, Type: "string", Description: "Governorate name, unique"},
		{Path: "annualAppreciationRate", Type: "number", Description: "Percent, 0 to 100"},
		{Path: "description", Type: "string", Description: "Free text"},
	},
	KindCities: {
		{Path: "name", Required: true, Type: "string", Description: "City name, unique"},
		{Path: "governorate", Type: "id or name", Description: "Parent governorate; created with ?autoCreate=true"},
		{Path: "annualAppreciationRate", Type: "number", Description: "Percent, 0 to 100"},
		{Path: "description", Type: "string", Description: "Free text"},
	},
	KindAreas: {
		{Path: "name", Required: true, Type: "string", Description: "Area name, unique within its city"},
		{Path: "city", Required: true, Type: "id or name", Description: "Parent city; created with ?autoCreate=true"},
		{Path: "governorate", Type: "id or name", Description: "Narrows the city lookup"},
		{Path: "annualAppreciationRate", Type: "number", Description: "Percent, 0 to 100"},
		{Path: "description", Type: "string", Description: "Free text"},
	},
	KindProperties: {
		{Path: "title", Required: true, Type: "string", Description: "Unique together with location.address"},
		{Path: "description", Type: "string", Description: "Free text"},
		{Path: "type", Required: true, Type: "enum", Description: "Property type", Values: propertyTypes.Values()},
		{Path: "status", Type: "enum", Description: "Defaults to FOR_SALE", Values: propertyStatuses.Values()},
		{Path: "developerStatus", Type: "enum", Description: "Defaults to READY", Values: developerStatuses.Values()},
		{Path: "price", Required: true, Type: "number", Description: "Positive amount"},
		{Path: "currency", Type: "enum", Description: "Defaults to EGP", Values: currencies.Values()},
		{Path: "developer", Type: "id or name", Description: "Created when missing"},
		{Path: "governorate_ref", Type: "id or name", Description: "Created when missing"},
		{Path: "city_ref", Type: "id or name", Description: "Created under the governorate when missing"},
		{Path: "area_ref", Type: "id or name", Description: "Created under the city when missing"},
		{Path: "location.address", Required: true, Type: "string", Description: "Street address"},
		{Path: "location.city", Type: "string", Description: "Required when no *_ref is given"},
		{Path: "location.state", Type: "string", Description: "Required when no *_ref is given"},
		{Path: "location.country", Type: "string", Description: "Defaults to Egypt"},
		{Path: "specifications.bedrooms", Type: "integer", Description: "Bedroom count"},
		{Path: "specifications.bathrooms", Type: "integer", Description: "Bathroom count"},
		{Path: "specifications.area", Type: "number", Description: "Built-up area, positive"},
		{Path: "features", Type: "list", Description: "Array or comma-separated text"},
		{Path: "amenities", Type: "list", Description: "Array or comma-separated text"},
		{Path: "images", Type: "list", Description: "References or {url, caption, isHero, order}"},
	},
	KindLeads: {
		{Path: "name", Required: true, Type: "string", Description: "Contact name"},
		{Path: "email", Required: true, Type: "email", Description: "Unique together with phone"},
		{Path: "phone", Required: true, Type: "phone", Description: "Digits with optional leading +"},
		{Path: "requiredService", Type: "enum", Description: "What the lead wants", Values: leadServices.Values()},
		{Path: "propertyType", Type: "enum", Description: "Property type of interest", Values: leadPropertyTypes.Values()},
		{Path: "purpose", Type: "enum", Description: "Intended use", Values: leadPurposes.Values()},
		{Path: "budget.min", Type: "number", Description: "Lower bound"},
		{Path: "budget.max", Type: "number", Description: "Upper bound"},
		{Path: "budget.currency", Type: "enum", Description: "Defaults to EGP", Values: budgetCurrencies.Values()},
		{Path: "assignedTo", Type: "id or email", Description: "Existing user"},
		{Path: "notes", Type: "string", Description: "Free text"},
		{Path: "source", Type: "string", Description: "Defaults to bulk_upload"},
	},
	KindLaunches: {
		{Path: "title", Required: true, Type: "string", Description: "Unique together with developer"},
		{Path: "developer", Required: true, Type: "string", Description: "Linked when it matches a stored developer"},
		{Path: "description", Type: "string", Description: "Free text"},
		{Path: "location", Type: "string", Description: "Free text location"},
		{Path: "propertyType", Type: "enum", Description: "Property type", Values: launchTypes.Values()},
		{Path: "status", Type: "enum", Description: "Defaults to UPCOMING", Values: launchStatuses.Values()},
		{Path: "currency", Type: "enum", Description: "Defaults to EGP", Values: currencies.Values()},
		{Path: "startingPrice", Type: "number", Description: "Positive amount"},
		{Path: "area", Type: "number", Description: "Smallest unit area"},
		{Path: "bedrooms", Type: "integer", Description: "Bedroom count"},
		{Path: "bathrooms", Type: "integer", Description: "Bathroom count"},
		{Path: "launchDate", Type: "date", Description: "YYYY-MM-DD or RFC 3339"},
		{Path: "image", Type: "image", Description: "Card image"},
		{Path: "coverImage", Type: "image", Description: "Hero banner"},
		{Path: "gallery", Type: "list", Description: "Image references"},
		{Path: "videoUrl", Type: "string", Description: "Video link"},
	},
}

var templateExamples = map[Kind][]map[string]interface{}{
	KindUsers: {{
		"name": "Mona Adel", "email": "mona@example.com", "phone": "+201001234567",
		"password": "changeme123", "role": "sales_agent", "isActive": true,
		"permissions": map[string]interface{}{"canManageLeads": true, "canBulkUpload": false},
	}},
	KindDevelopers: {{
		"name": "Palm Hills", "slug": "palm-hills", "logo": "https://example.com/logos/palm-hills.png",
		"description": "Residential developer",
	}},
	KindGovernorates: {{
		"name": "Giza", "annualAppreciationRate": 7.5, "description": "West bank of the Nile",
	}},
	KindCities: {{
		"name": "Sheikh Zayed", "governorate": "Giza", "annualAppreciationRate": 9, "description": "",
	}},
	KindAreas: {{
		"name": "Beverly Hills", "city": "Sheikh Zayed", "governorate": "Giza", "annualAppreciationRate": 10,
		"description": "",
	}},
	KindProperties: {{
		"title": "Garden Villa", "description": "Corner villa with private garden",
		"type": "VILLA", "status": "FOR_SALE", "developerStatus": "READY",
		"price": 12500000, "currency": "EGP", "developer": "Palm Hills",
		"governorate_ref": "Giza", "city_ref": "Sheikh Zayed", "area_ref": "Beverly Hills",
		"location": map[string]interface{}{"address": "12 Palm Street", "city": "Sheikh Zayed", "state": "Giza", "country": "Egypt"},
		"specifications": map[string]interface{}{"bedrooms": 4, "bathrooms": 3, "area": 350},
		"features":       []interface{}{"Private garden", "Corner unit"},
		"amenities":      []interface{}{"Pool", "Gym"},
		"images": []interface{}{
			map[string]interface{}{"url": "properties/garden-villa.jpg", "caption": "Front", "isHero": true, "order": 0},
			map[string]interface{}{"url": "https://example.com/garden-villa-2.jpg", "caption": "Garden", "isHero": false, "order": 1},
		},
	}},
	KindLeads: {{
		"name": "Omar Hassan", "email": "omar@example.com", "phone": "+201112223334",
		"requiredService": "BUY", "propertyType": "APARTMENT", "purpose": "RESIDENTIAL",
		"budget":     map[string]interface{}{"min": 2000000, "max": 3500000, "currency": "EGP"},
		"assignedTo": "agent@example.com", "notes": "Prefers ground floor", "source": "website",
	}},
	KindLaunches: {{
		"title": "The Crest", "developer": "Palm Hills", "description": "New compound launch",
		"location": "New Cairo", "propertyType": "APARTMENT", "status": "UPCOMING", "currency": "EGP",
		"startingPrice": 4500000, "area": 120, "bedrooms": 2, "bathrooms": 2, "launchDate": "2026-03-01",
		"image": "launches/crest.jpg", "coverImage": "launches/crest-cover.jpg",
		"gallery": []interface{}{"launches/crest-1.jpg", "launches/crest-2.jpg"}, "videoUrl": "https://example.com/crest.mp4",
	}},
}

// FieldDocs returns the documented fields for kind.
func FieldDocs(kind Kind) []FieldDoc {
	return fieldDocs[kind]
}

// TemplateJSON returns example records for kind.
func TemplateJSON(kind Kind) ([]map[string]interface{}, error) {
	examples, ok := templateExamples[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEntity, kind)
	}
	return examples, nil
}

// flatten turns nested values into dot-notation keys. Scalar lists are joined
// with ", "; lists of objects are indexed ("images.0.url").
func flatten(prefix string, v interface{}, out map[string]interface{}) {
	switch val := v.(type) {
	case map[string]interface{}:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			flatten(key, child, out)
		}
	case []interface{}:
		scalars := make([]string, 0, len(val))
		for i, child := range val {
			if _, nested := child.(map[string]interface{}); nested {
				flatten(prefix+"."+strconv.Itoa(i), child, out)
				continue
			}
			scalars = append(scalars, fmt.Sprint(child))
		}
		if len(scalars) > 0 {
			out[prefix] = strings.Join(scalars, ", ")
		}
	default:
		out[prefix] = val
	}
}

// columnsFor orders flattened keys by the field documentation, then by index.
func columnsFor(kind Kind, flat map[string]interface{}) []string {
	var columns []string
	used := make(map[string]bool)
	for _, doc := range fieldDocs[kind] {
		var group []string
		for key := range flat {
			if used[key] {
				continue
			}
			if key == doc.Path || strings.HasPrefix(key, doc.Path+".") {
				group = append(group, key)
			}
		}
		sort.Strings(group)
		for _, key := range group {
			used[key] = true
		}
		columns = append(columns, group...)
	}
	var rest []string
	for key := range flat {
		if !used[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(columns, rest...)
}

func requiredPaths(kind Kind) map[string]bool {
	req := make(map[string]bool)
	for _, doc := range fieldDocs[kind] {
		if doc.Required {
			req[doc.Path] = true
		}
	}
	return req
}

// TemplateExcel renders the example records as a spreadsheet with one header
// row of dot-notation columns, a frozen header and sized columns.
func TemplateExcel(kind Kind) ([]byte, error) {
	examples, err := TemplateJSON(kind)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]interface{}, len(examples))
	union := make(map[string]interface{})
	for i, ex := range examples {
		rows[i] = make(map[string]interface{})
		flatten("", ex, rows[i])
		for k, v := range rows[i] {
			union[k] = v
		}
	}
	columns := columnsFor(kind, union)
	required := requiredPaths(kind)

	f := excelize.NewFile()
	defer f.Close()

	sheet := strings.ToUpper(string(kind[:1])) + string(kind[1:])
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})
	requiredStyle, _ := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"C65911"}, Pattern: 1},
		Border: []excelize.Border{{Type: "bottom", Color: "000000", Style: 1}},
	})

	widths := make([]int, len(columns))
	for i, col := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		header := col
		style := headerStyle
		if required[col] {
			header += " *"
			style = requiredStyle
		}
		f.SetCellValue(sheet, cell, header)
		f.SetCellStyle(sheet, cell, cell, style)
		widths[i] = utf8.RuneCountInString(header)
	}

	for r, row := range rows {
		for i, col := range columns {
			v, ok := row[col]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(i+1, r+2)
			f.SetCellValue(sheet, cell, v)
			if n := utf8.RuneCountInString(fmt.Sprint(v)); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, w := range widths {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		width := float64(w + 2)
		if width < 10 {
			width = 10
		}
		if width > 60 {
			width = 60
		}
		f.SetColWidth(sheet, colName, colName, width)
	}

	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// TemplatePDF renders the field reference for kind.
func TemplatePDF(kind Kind) ([]byte, error) {
	docs, ok := fieldDocs[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedEntity, kind)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(40, 10, fmt.Sprintf("Bulk upload field guide: %s", kind))
	pdf.Ln(12)

	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, "Upload a JSON array (max 1000 records) or an Excel sheet whose header row uses the field paths below. "+
		"Fields marked * are required. Enum values are matched ignoring case, spaces, '-' and '_'.", "", "L", false)
	pdf.Ln(4)

	headers := []string{"Field", "Required", "Type", "Description"}
	widths := []float64{50, 18, 24, 98}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, d := range docs {
		req := ""
		if d.Required {
			req = "*"
		}
		pdf.CellFormat(widths[0], 6, d.Path, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 6, req, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 6, d.Type, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[3], 6, d.Description, "1", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	var enumDocs []FieldDoc
	for _, d := range docs {
		if len(d.Values) > 0 {
			enumDocs = append(enumDocs, d)
		}
	}
	if len(enumDocs) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Arial", "B", 10)
		pdf.Cell(40, 8, "Allowed values")
		pdf.Ln(8)
		pdf.SetFont("Arial", "", 8)
		for _, d := range enumDocs {
			pdf.MultiCell(0, 5, d.Path+": "+strings.Join(d.Values, ", "), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
