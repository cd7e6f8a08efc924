package layout

// Item is one sidebar link.
type Item struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

// memberEntry pairs a sidebar link with its visibility predicate.
type memberEntry struct {
	item    Item
	visible func(PurchaseStatus) bool
}

func always(PurchaseStatus) bool          { return true }
func purchasedOnly(s PurchaseStatus) bool { return s.Confirmed() }

var memberEntries = []memberEntry{
	{item: Item{Label: "Check Classes", Path: "/check-class"}, visible: always},
	{item: Item{Label: "My Classes", Path: "/my-classes"}, visible: purchasedOnly},
	{item: Item{Label: "My Package", Path: "/my-package"}, visible: purchasedOnly},
	{item: Item{Label: "My Profile", Path: "/profile"}, visible: always},
}

// MemberSidebar returns the member sidebar entries visible for the given
// purchase status. Unknown gates like NotPurchased.
func MemberSidebar(status PurchaseStatus) []Item {
	items := make([]Item, 0, len(memberEntries))
	for _, entry := range memberEntries {
		if entry.visible(status) {
			items = append(items, entry.item)
		}
	}
	return items
}

// AdminSection is one top-level entry of the admin sidebar. A section with
// children is a disclosure node; Expanded reflects whether the current path
// matches one of its children.
type AdminSection struct {
	Label    string `json:"label"`
	Path     string `json:"path,omitempty"`
	Children []Item `json:"children,omitempty"`
	Expanded bool   `json:"expanded,omitempty"`
}

var websiteChildren = []Item{
	{Label: "Banner", Path: "/admin/website/banner"},
	{Label: "About", Path: "/admin/website/about"},
	{Label: "Gallery", Path: "/admin/website/gallery"},
	{Label: "Testimonials", Path: "/admin/website/testimonials"},
	{Label: "FAQ", Path: "/admin/website/faq"},
	{Label: "Contact", Path: "/admin/website/contact"},
}

// AdminSidebar returns the six fixed admin sections. Every entry is
// unconditionally visible; only the Website disclosure node carries state,
// auto-expanded when the current path is one of its children.
func AdminSidebar(currentPath string) []AdminSection {
	website := AdminSection{
		Label:    "Website",
		Children: append([]Item(nil), websiteChildren...),
	}
	for _, child := range websiteChildren {
		if child.Path == currentPath {
			website.Expanded = true
			break
		}
	}

	return []AdminSection{
		{Label: "Schedule", Path: "/admin/schedule"},
		{Label: "Members", Path: "/admin/member"},
		{Label: "Packages", Path: "/admin/package"},
		{Label: "Orders", Path: "/admin/order"},
		{Label: "Reports", Path: "/admin/report"},
		website,
	}
}
