package startgg

const tournamentQuery = `
query TournamentDetails($id: ID!) {
  tournament(id: $id) {
    id
    name
    slug
    city
    countryCode
    startAt
    events {
      id
      standings(query: {perPage: 1}) {
        nodes {
          entrant { name }
        }
      }
    }
  }
}`

const tournamentParticipantsQuery = `
query TournamentParticipants($id: ID!, $page: Int!, $perPage: Int!) {
  tournament(id: $id) {
    id
    participants(query: {page: $page, perPage: $perPage}) {
      pageInfo { totalPages }
      nodes {
        id
        gamerTag
        player { id }
        entrants { id }
      }
    }
  }
}`

const eventTournamentQuery = `
query EventTournament($eventId: ID!) {
  event(id: $eventId) {
    id
    tournament { id }
  }
}`

const eventBySlugQuery = `
query EventBySlug($slug: String!) {
  event(slug: $slug) {
    id
    name
  }
}`

const eventSetsQuery = `
query EventSets($eventId: ID!, $page: Int!, $perPage: Int!) {
  event(id: $eventId) {
    id
    sets(page: $page, perPage: $perPage, sortType: STANDARD) {
      nodes {
        id
        displayScore
        phaseGroup {
          displayIdentifier
          phase { name }
        }
        event {
          name
          tournament { name }
        }
        slots {
          entrant { id }
        }
        games {
          selections {
            entrant { id }
            character { id }
          }
        }
      }
    }
  }
}`

const setByIDQuery = `
query SetById($setId: ID!) {
  set(id: $setId) {
    id
    displayScore
    phaseGroup {
      displayIdentifier
      phase { name }
    }
    event {
      name
      tournament { name }
    }
    slots {
      entrant { id }
    }
    games {
      selections {
        entrant { id }
        character { id }
      }
    }
  }
}`

const playerQuery = `
query PlayerProfile($id: ID!) {
  player(id: $id) {
    id
    gamerTag
    prefix
    user {
      slug
      location { city state country }
      authorizations(types: [TWITTER, DISCORD, TWITCH]) {
        type
        externalUsername
      }
    }
  }
}`

const tournamentsByCountryQuery = `
query TournamentsByCountry($countryCode: String!, $page: Int!, $perPage: Int!) {
  tournaments(query: {
    page: $page
    perPage: $perPage
    filter: {countryCode: $countryCode, videogameIds: [1386]}
  }) {
    pageInfo { totalPages }
    nodes {
      id
      name
      slug
      city
      countryCode
      startAt
    }
  }
}`
