package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHolderConsistent(t *testing.T) {
	loc := uint(1)
	vendor := uint(2)

	cases := []struct {
		name string
		item Item
		want bool
	}{
		{"location with location id", Item{HolderType: HolderLocation, LocationID: &loc}, true},
		{"location without location id", Item{HolderType: HolderLocation}, false},
		{"location with stray vendor id", Item{HolderType: HolderLocation, LocationID: &loc, VendorID: &vendor}, false},
		{"vendor with vendor id", Item{HolderType: HolderVendor, VendorID: &vendor}, true},
		{"vendor without vendor id", Item{HolderType: HolderVendor}, false},
		{"vendor with stray location id", Item{HolderType: HolderVendor, VendorID: &vendor, LocationID: &loc}, false},
		{"none bare", Item{HolderType: HolderNone}, true},
		{"none with location id", Item{HolderType: HolderNone, LocationID: &loc}, false},
		{"unknown holder tag", Item{HolderType: "WAREHOUSE", LocationID: &loc}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.item.HolderConsistent())
		})
	}
}

func TestValidateSourceRef(t *testing.T) {
	assert.NoError(t, ValidateSourceRef(SourceRef{Type: SourceOrder, ID: 1}))
	assert.NoError(t, ValidateSourceRef(SourceRef{Type: SourceJobWork, ID: 1}))
	assert.NoError(t, ValidateSourceRef(SourceRef{Type: SourceOutwardReturn, ID: 1}))

	assert.ErrorIs(t, ValidateSourceRef(SourceRef{Type: "PURCHASE", ID: 1}), ErrValidation)
	assert.ErrorIs(t, ValidateSourceRef(SourceRef{Type: "", ID: 1}), ErrValidation)
	assert.ErrorIs(t, ValidateSourceRef(SourceRef{Type: SourceOrder}), ErrValidation)
}

func TestQcRejected(t *testing.T) {
	assert.False(t, (&InwardLine{QcPending: true}).QcRejected())
	assert.False(t, (&InwardLine{QcPending: false, QcApproved: true}).QcRejected())
	assert.True(t, (&InwardLine{QcPending: false, QcApproved: false}).QcRejected())
}
