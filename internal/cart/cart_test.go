package cart

import (
	"testing"

	"server/internal/domain"
)

var (
	tee = domain.Product{ID: 1, Name: "The Natural - Vintage Tee", Price: 45, Category: "Apparel"}
	hat = domain.Product{ID: 3, Name: "Championship Legacy Hat", Price: 35, Category: "Accessories"}
)

func TestAddIncrementsExistingLine(t *testing.T) {
	s := NewStore()
	s.Add("sid", tee)
	items := s.Add("sid", tee)
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Quantity != 2 {
		t.Fatalf("Quantity = %d, want 2", items[0].Quantity)
	}
	if got := s.Subtotal("sid"); got != 90 {
		t.Fatalf("Subtotal = %v, want 90", got)
	}
}

func TestAddTwiceThenRemoveLeavesNoLine(t *testing.T) {
	s := NewStore()
	s.Add("sid", hat)
	s.Add("sid", hat)
	items := s.Remove("sid", hat.ID)
	if len(items) != 0 {
		t.Fatalf("len(items) = %d, want 0", len(items))
	}
	// removing again is a no-op
	if items := s.Remove("sid", hat.ID); len(items) != 0 {
		t.Fatalf("second remove: len(items) = %d, want 0", len(items))
	}
}

func TestUpdateQuantity(t *testing.T) {
	s := NewStore()
	s.Add("sid", tee)
	items := s.UpdateQuantity("sid", tee.ID, 5)
	if items[0].Quantity != 5 {
		t.Fatalf("Quantity = %d, want 5", items[0].Quantity)
	}
	if got := s.ItemCount("sid"); got != 5 {
		t.Fatalf("ItemCount = %d, want 5", got)
	}
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	s := NewStore()
	s.Add("sid", tee)
	s.Add("sid", hat)
	for _, qty := range []int{0, -3} {
		items := s.UpdateQuantity("sid", tee.ID, qty)
		for _, item := range items {
			if item.ID == tee.ID {
				t.Fatalf("quantity %d should remove the line", qty)
			}
		}
	}
	if got := len(s.Items("sid")); got != 1 {
		t.Fatalf("len(items) = %d, want 1", got)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	s := NewStore()
	s.Add("a", tee)
	if got := len(s.Items("b")); got != 0 {
		t.Fatalf("session b has %d items, want 0", got)
	}
}

func TestCheckout(t *testing.T) {
	s := NewStore()
	s.Add("sid", tee)
	s.Add("sid", tee)
	s.Add("sid", hat)
	items, total, err := s.Checkout("sid")
	if err != nil {
		t.Fatalf("Checkout returned error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, want 2", len(items))
	}
	if total != 125 {
		t.Fatalf("total = %v, want 125", total)
	}
	if got := len(s.Items("sid")); got != 0 {
		t.Fatalf("cart not emptied, %d items left", got)
	}
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	s := NewStore()
	if _, _, err := s.Checkout("sid"); err != domain.ErrEmptyCart {
		t.Fatalf("err = %v, want ErrEmptyCart", err)
	}
}
