// @title           Candidate Intake API
// @version         1.0
// @description     API для многошаговой формы подачи заявки кандидата (анкета, резюме, видеоответ).
// @contact.name    Recruiting Team
// @license.name    MIT
// @license.url     https://opensource.org/licenses/MIT
// @host            localhost:4000
// @BasePath        /

package main

import "intake_backend/internal/app"

func main() {
	app.Run()
}
