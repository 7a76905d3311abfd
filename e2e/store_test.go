package e2e

import "testing"

// TestHasTitle checks the store entry page
// Feature: Storefront
//
//	Scenario: Open the store
//	  Given I open the store
//	  Then the page title should be "Swag Labs"
func TestHasTitle(t *testing.T) {
	runScenario(t, "has-title")
}

// TestLogin checks that the standard user can sign in
// Feature: Login
//
//	Scenario: Sign in as the standard user
//	  Given I open the store
//	  When I enter "standard_user" as username
//	  And I enter "secret_sauce" as password
//	  And I click "Login"
//	  Then I should be on the inventory page
func TestLogin(t *testing.T) {
	runScenario(t, "login")
}

// TestAboutPage checks the About entry of the navigation menu
// Feature: Navigation menu
//
//	Scenario: Open the About page
//	  Given I am signed in
//	  When I click "Open menu"
//	  And I click the "About" link
//	  Then I should be on https://saucelabs.com/
func TestAboutPage(t *testing.T) {
	runScenario(t, "about-page")
}

// TestShoppingCart checks the header cart icon
// Feature: Shopping cart
//
//	Scenario: Open the cart
//	  Given I am signed in
//	  When I click the shopping cart icon
//	  Then I should be on the cart page
func TestShoppingCart(t *testing.T) {
	runScenario(t, "shopping-cart")
}

// TestAddBackpackToCart checks adding an item from the inventory
// Feature: Shopping cart
//
//	Scenario: Add the backpack to the cart
//	  Given I am signed in
//	  When I click "Add to cart" on the Sauce Labs Backpack
//	  Then I should see a "Remove" button
//	  And the cart badge should show "1"
func TestAddBackpackToCart(t *testing.T) {
	runScenario(t, "add-backpack")
}
