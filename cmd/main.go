package main

// @title Credit Engine API
// @version 1.0
// @description Customer registration, credit scoring, loan eligibility and loan origination.

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	Execute()
}
