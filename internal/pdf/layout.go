package pdf

// PhotoGridGeometry describes the vertical space available to the photo grid, in mm.
type PhotoGridGeometry struct {
	PageHeight   float64
	TopMargin    float64
	BottomMargin float64
	FooterHeight float64
	// FirstPageY is where the grid starts on its first page, below the section header.
	FirstPageY float64
	// CellHeight is label plus image; RowStep adds the gap to the next row.
	CellHeight float64
	RowStep    float64
	PerRow     int
}

// DefaultPhotoGrid matches the A4 layout used by GenerateAgreementPDF.
var DefaultPhotoGrid = PhotoGridGeometry{
	PageHeight:   297,
	TopMargin:    pageTopMargin,
	BottomMargin: pageBottomMargin,
	FooterHeight: footerHeight,
	FirstPageY:   pageTopMargin + photoHeaderHeight,
	CellHeight:   photoLabelHeight + photoImageHeight,
	RowStep:      photoLabelHeight + photoImageHeight + photoRowGap,
	PerRow:       2,
}

// UsableBottom is the lowest y a cell may reach.
func (g PhotoGridGeometry) UsableBottom() float64 {
	return g.PageHeight - g.BottomMargin - g.FooterHeight
}

// PhotoRow is one row of the grid: the indexes of the photos it holds.
type PhotoRow struct {
	Page    int
	Y       float64
	Indexes []int
}

// PlanPhotoGrid lays out n photos in rows of g.PerRow. Before a row is placed
// its bottom is projected; if it would pass the usable bottom the row moves to
// a new page starting at the top margin.
func PlanPhotoGrid(n int, g PhotoGridGeometry) []PhotoRow {
	if n <= 0 {
		return nil
	}
	perRow := g.PerRow
	if perRow <= 0 {
		perRow = 2
	}

	var rows []PhotoRow
	page := 0
	y := g.FirstPageY
	for start := 0; start < n; start += perRow {
		if y+g.CellHeight > g.UsableBottom() && len(rows) > 0 && rows[len(rows)-1].Page == page {
			page++
			y = g.TopMargin
		}

		end := start + perRow
		if end > n {
			end = n
		}
		idx := make([]int, 0, end-start)
		for i := start; i < end; i++ {
			idx = append(idx, i)
		}

		rows = append(rows, PhotoRow{Page: page, Y: y, Indexes: idx})
		y += g.RowStep
	}
	return rows
}

// PageCount returns how many pages the planned rows span.
func PageCount(rows []PhotoRow) int {
	if len(rows) == 0 {
		return 0
	}
	return rows[len(rows)-1].Page + 1
}
