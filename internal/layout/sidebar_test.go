package layout

import "testing"

func sidebarLabels(items []Item) map[string]bool {
	labels := make(map[string]bool, len(items))
	for _, item := range items {
		labels[item.Label] = true
	}
	return labels
}

func TestMemberSidebar_Gating(t *testing.T) {
	t.Parallel()

	t.Run("purchased member sees all entries", func(t *testing.T) {
		t.Parallel()

		labels := sidebarLabels(MemberSidebar(Purchased))
		for _, want := range []string{"Check Classes", "My Classes", "My Package", "My Profile"} {
			if !labels[want] {
				t.Fatalf("expected %q in sidebar, got %v", want, labels)
			}
		}
	})

	t.Run("unpurchased member loses gated entries", func(t *testing.T) {
		t.Parallel()

		labels := sidebarLabels(MemberSidebar(NotPurchased))
		if labels["My Classes"] || labels["My Package"] {
			t.Fatalf("gated entries visible without purchase: %v", labels)
		}
		if !labels["Check Classes"] || !labels["My Profile"] {
			t.Fatalf("always-visible entries missing: %v", labels)
		}
	})

	t.Run("unknown status gates like not purchased", func(t *testing.T) {
		t.Parallel()

		labels := sidebarLabels(MemberSidebar(PurchaseUnknown))
		if labels["My Classes"] || labels["My Package"] {
			t.Fatalf("gated entries visible while status unresolved: %v", labels)
		}
	})
}

func TestAdminSidebar_Structure(t *testing.T) {
	t.Parallel()

	sections := AdminSidebar("/admin/schedule")
	if len(sections) != 6 {
		t.Fatalf("expected 6 top-level sections, got %d", len(sections))
	}

	var website *AdminSection
	for i := range sections {
		if sections[i].Label == "Website" {
			website = &sections[i]
		}
	}
	if website == nil {
		t.Fatalf("Website disclosure node missing")
	}
	if len(website.Children) != 6 {
		t.Fatalf("expected 6 Website children, got %d", len(website.Children))
	}
	if website.Expanded {
		t.Fatalf("Website must be collapsed when current path is elsewhere")
	}
}

func TestAdminSidebar_WebsiteAutoExpansion(t *testing.T) {
	t.Parallel()

	sections := AdminSidebar("/admin/website/gallery")
	for _, section := range sections {
		if section.Label != "Website" {
			continue
		}
		if !section.Expanded {
			t.Fatalf("Website must auto-expand when a child path is current")
		}
		return
	}
	t.Fatalf("Website disclosure node missing")
}
