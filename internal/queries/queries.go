// Package queries holds the GraphQL documents sent to the Pipefy API.
//
// Only operation constants live here; variables are built by the
// services in internal/pipefy.
package queries

// --- Pipes ---

const GetPipe = `
query ($pipe_id: ID!) {
    pipe(id: $pipe_id) {
        id
        name
        phases {
            id
            name
        }
        labels {
            id
            name
        }
        start_form_fields {
            id
            label
            required
            type
            options
        }
    }
}`

const GetPipeMembers = `
query ($pipe_id: ID!) {
    pipe(id: $pipe_id) {
        members {
            role_name
            user {
                id
                name
                email
            }
        }
    }
}`

const GetStartFormFields = `
query ($pipe_id: ID!) {
    pipe(id: $pipe_id) {
        start_form_fields {
            id
            label
            type
            required
            editable
            options
            description
            help
        }
    }
}`

const GetPhaseFields = `
query ($phase_id: ID!) {
    phase(id: $phase_id) {
        id
        name
        fields {
            id
            label
            type
            required
            editable
            options
            description
            help
        }
    }
}`

const SearchPipes = `
{
    organizations {
        id
        name
        pipes {
            id
            name
            description
        }
    }
}`

// --- Cards ---

const CreateCard = `
mutation ($pipe_id: ID!, $fields: [FieldValueInput!]!) {
    createCard(input: {pipe_id: $pipe_id, fields_attributes: $fields}) {
        card {
            id
        }
    }
}`

const GetCard = `
query ($card_id: ID!, $includeFields: Boolean!) {
    card(id: $card_id) {
        id
        title
        due_date
        pipe {
            id
            name
        }
        current_phase {
            id
            name
        }
        assignees {
            id
            name
            email
        }
        labels {
            id
            name
        }
        fields @include(if: $includeFields) {
            name
            value
            field {
                id
            }
        }
    }
}`

const GetCards = `
query ($pipe_id: ID!, $search: CardSearch, $includeFields: Boolean!) {
    cards(pipe_id: $pipe_id, search: $search) {
        edges {
            node {
                id
                title
                current_phase {
                    id
                    name
                }
                fields @include(if: $includeFields) {
                    name
                    value
                }
            }
        }
    }
}`

const FindCards = `
query ($pipeId: ID!, $search: FindCards!, $includeFields: Boolean!) {
    findCards(pipeId: $pipeId, search: $search) {
        edges {
            node {
                id
                title
                current_phase {
                    id
                    name
                }
                fields @include(if: $includeFields) {
                    name
                    value
                }
            }
        }
    }
}`

const MoveCardToPhase = `
mutation ($input: MoveCardToPhaseInput!) {
    moveCardToPhase(input: $input) {
        clientMutationId
    }
}`

const UpdateCardField = `
mutation ($input: UpdateCardFieldInput!) {
    updateCardField(input: $input) {
        card {
            id
            title
            fields {
                field {
                    id
                    label
                }
                value
            }
            updated_at
        }
        success
        clientMutationId
    }
}`

const UpdateCard = `
mutation ($input: UpdateCardInput!) {
    updateCard(input: $input) {
        card {
            id
            title
            current_phase {
                id
                name
            }
            assignees {
                id
                name
                email
            }
            labels {
                id
                name
            }
            due_date
            updated_at
        }
        clientMutationId
    }
}`

const UpdateFieldsValues = `
mutation ($input: UpdateFieldsValuesInput!) {
    updateFieldsValues(input: $input) {
        success
        userErrors {
            field
            message
        }
        updatedNode {
            ... on Card {
                id
                title
                fields {
                    name
                    value
                    filled_at
                    updated_at
                }
                assignees {
                    id
                    name
                }
                labels {
                    id
                    name
                }
                updated_at
            }
        }
    }
}`

const DeleteCard = `
mutation ($input: DeleteCardInput!) {
    deleteCard(input: $input) {
        success
    }
}`

// --- Comments ---

const CreateComment = `
mutation ($input: CreateCommentInput!) {
    createComment(input: $input) {
        comment {
            id
        }
    }
}`

const UpdateComment = `
mutation ($input: UpdateCommentInput!) {
    updateComment(input: $input) {
        comment {
            id
        }
    }
}`

const DeleteComment = `
mutation ($input: DeleteCommentInput!) {
    deleteComment(input: $input) {
        success
    }
}`
