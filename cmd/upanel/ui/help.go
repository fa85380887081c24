package ui

import "github.com/charmbracelet/glamour"

const helpMarkdown = `# uPanel

Painel de controle de usuários.

## Listagem

| Tecla | Ação |
|-------|------|
| / | pesquisar por nome, email, cidade |
| s | alternar campo de organização |
| o | alternar direção da ordenação |
| r | resetar filtros e pesquisa |
| ←/→ ou 1-9 | trocar de página |
| a | adicionar um novo usuário |
| e / enter | atualizar o usuário selecionado |
| d | excluir o usuário selecionado |
| ctrl+l | sair da sessão |

## Formulário

| Tecla | Ação |
|-------|------|
| tab / shift+tab | navegar entre campos |
| enter no campo número | enviar o formulário |
| ctrl+s | enviar o formulário |
| esc | cancelar |

O preenchimento automático de endereço dispara quando o CEP digitado
completa 8 dígitos.
`

// RenderHelp produces the markdown help overlay for the given theme.
func RenderHelp(theme Theme) string {
	style := "light"
	if theme.IsDark {
		style = "dark"
	}
	out, err := glamour.Render(helpMarkdown, style)
	if err != nil {
		// Raw markdown is still readable.
		return helpMarkdown
	}
	return out
}
