package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EhaabShareef/inventory-manage/internal/errs"
	"github.com/EhaabShareef/inventory-manage/internal/models"
)

func TestCreateClientDuplicateResort(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	_, err := svc.CreateClient(manager, ClientInput{ResortName: "Sunset Bay"})
	require.NoError(t, err)

	_, err = svc.CreateClient(manager, ClientInput{ResortName: "Sunset Bay"})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestCreateClientValidation(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	var ve *errs.ValidationError

	_, err := svc.CreateClient(manager, ClientInput{ResortName: "  "})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "resort_name")

	_, err = svc.CreateClient(manager, ClientInput{
		ResortName: "Sunset Bay",
		Email:      strPtr("not-an-email"),
	})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")

	var count int64
	require.NoError(t, db.Model(&models.Client{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdateClientPartial(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	client, err := svc.CreateClient(manager, ClientInput{
		ResortName:  "Sunset Bay",
		CompanyName: strPtr("Sunrise Holdings Pvt Ltd"),
		Atoll:       strPtr("Kaafu"),
	})
	require.NoError(t, err)

	// Only the supplied field changes; a supplied null clears.
	_, err = svc.UpdateClient(manager, client.ID, map[string]interface{}{
		"atoll":      nil,
		"it_contact": "Hassan",
	})
	require.NoError(t, err)

	var stored models.Client
	require.NoError(t, db.First(&stored, client.ID).Error)
	assert.Nil(t, stored.Atoll)
	require.NotNil(t, stored.ItContact)
	assert.Equal(t, "Hassan", *stored.ItContact)
	require.NotNil(t, stored.CompanyName)
	assert.Equal(t, "Sunrise Holdings Pvt Ltd", *stored.CompanyName)

	var ve *errs.ValidationError
	_, err = svc.UpdateClient(manager, client.ID, map[string]interface{}{"email": "bad"})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "email")

	_, err = svc.UpdateClient(manager, client.ID, map[string]interface{}{"resort_name": ""})
	require.ErrorAs(t, err, &ve)
	assert.Contains(t, ve.Fields, "resort_name")
}

func TestListClientsSearch(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	for _, in := range []ClientInput{
		{ResortName: "Sunset Bay", CompanyName: strPtr("Sunrise Holdings Pvt Ltd")},
		{ResortName: "Coral Reef", GstTinNo: strPtr("GST-1042")},
		{ResortName: "Azure Lagoon"},
	} {
		_, err := svc.CreateClient(manager, in)
		require.NoError(t, err)
	}

	page, err := svc.ListClients("", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.TotalCount)
	clients := page.Items.([]models.Client)
	require.Len(t, clients, 3)
	assert.Equal(t, "Azure Lagoon", clients[0].ResortName)
	assert.Equal(t, "Coral Reef", clients[1].ResortName)
	assert.Equal(t, "Sunset Bay", clients[2].ResortName)

	// Search matches company name and GST/TIN, not just resort name.
	page, err = svc.ListClients("Sunrise", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)

	page, err = svc.ListClients("1042", 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.TotalCount)
}

func TestGetClientByResortName(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)

	_, err := svc.CreateClient(manager, ClientInput{ResortName: "Sunset Bay"})
	require.NoError(t, err)

	client, err := svc.GetClientByResortName("Sunset Bay")
	require.NoError(t, err)
	assert.Equal(t, "Sunset Bay", client.ResortName)

	_, err = svc.GetClientByResortName("Nowhere")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestDeleteClientKeepsQuoteSnapshot(t *testing.T) {
	svc, db := newTestService(t)
	manager := seedManager(t, db)
	category := seedCategory(t, db, "Networking")
	item := seedItem(t, db, "Switch-24", category.ID, "120.00")

	client, err := svc.CreateClient(manager, ClientInput{ResortName: "Sunset Bay"})
	require.NoError(t, err)

	quote, err := svc.CreateQuote(manager, QuoteInput{
		ResortName: "Sunset Bay",
		Items:      []QuoteLineInput{{ItemID: item.ID, Amount: "115.50"}},
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteClient(manager, client.ID))

	// The quote keeps the resort name it was issued under.
	stored, err := svc.GetQuote(quote.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sunset Bay", stored.ResortName)
}

func TestClientMutationsRequireManage(t *testing.T) {
	svc, db := newTestService(t)
	viewer := seedUser(t, db, "viewer", models.RoleView)
	manager := seedManager(t, db)

	client, err := svc.CreateClient(manager, ClientInput{ResortName: "Sunset Bay"})
	require.NoError(t, err)

	_, err = svc.CreateClient(viewer, ClientInput{ResortName: "Blocked"})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	_, err = svc.UpdateClient(viewer, client.ID, map[string]interface{}{"atoll": "Kaafu"})
	assert.ErrorIs(t, err, errs.ErrForbidden)
	assert.ErrorIs(t, svc.DeleteClient(viewer, client.ID), errs.ErrForbidden)
}
