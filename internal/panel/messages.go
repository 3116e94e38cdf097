package panel

// User-facing texts, in the panel's Portuguese
const (
	msgFillAllFields   = "Por favor, preencha todos os campos."
	msgLoginOK         = "Login realizado com sucesso!"
	msgLoginFailed     = "Erro no login"
	msgLoginConnection = "Erro de conexão. Tente novamente."
	msgLogoutOK        = "Logout realizado com sucesso!"

	msgLoadFailed     = "Erro ao carregar equivalências"
	msgLoadConnection = "Erro de conexão ao carregar dados"

	msgCreated        = "Equivalência criada com sucesso!"
	msgUpdated        = "Equivalência atualizada com sucesso!"
	msgSaveFailed     = "Erro ao salvar equivalência"
	msgSaveConnection = "Erro de conexão ao salvar"

	msgDeleted          = "Equivalência excluída com sucesso!"
	msgDeleteFailed     = "Erro ao excluir equivalência"
	msgDeleteConnection = "Erro de conexão ao excluir"

	// ConfirmDeletePrompt is the question asked before deleting a record
	ConfirmDeletePrompt = "Tem certeza que deseja excluir esta equivalência?"
)
